package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specter-dev/specter/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "specter",
	Short: "specter - scriptable desktop automation",
	Long: `specter records sequences of simulated input (mouse, keyboard, window
operations) and replays them later. A local daemon owns the sequence library;
every other command talks to it over a Unix socket.`,
}

var socketPath string

func init() {
	defaults := config.DefaultConfig()
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", defaults.SocketPath, "Path to the daemon socket")

	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(seqCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(inputCmd)
	rootCmd.AddCommand(winCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
