package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/specter-dev/specter/internal/config"
	"github.com/specter-dev/specter/internal/daemon"
	"github.com/specter-dev/specter/internal/history"
	"github.com/specter-dev/specter/internal/library"
)

var configPath string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the specter daemon",
	Long:  `Starts the daemon that owns the sequence library and serves automation requests over a Unix socket.`,
	RunE:  runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default ~/.specter/config.yaml)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log.Println("Starting specter daemon...")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromHome()
	}
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("socket") {
		cfg.SocketPath = socketPath
	}

	lib, err := library.New(cfg.LibraryDir)
	if err != nil {
		return err
	}
	if err := lib.LoadAll(); err != nil {
		return err
	}
	log.Printf("Sequence library: %s (%d sequences)", cfg.LibraryDir, lib.Len())

	journal, err := history.New(cfg.HistoryDB)
	if err != nil {
		log.Printf("Warning: run history disabled: %v", err)
		journal = nil
	} else {
		defer journal.Close()
	}

	dispatch := daemon.NewDispatcher()
	session := daemon.NewSession(lib, dispatch, journal)
	server := daemon.NewServer(session, dispatch, cfg.SocketPath, cfg.MaxMessageBytes)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Shutdown complete")
	return nil
}
