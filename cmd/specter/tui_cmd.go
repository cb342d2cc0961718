package main

import (
	"github.com/spf13/cobra"

	"github.com/specter-dev/specter/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and replay sequences interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := tui.New(socketPath)
		return app.Run()
	},
}
