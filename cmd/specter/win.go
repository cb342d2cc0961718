package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/specter-dev/specter/internal/daemon"
)

var winCmd = &cobra.Command{
	Use:   "win",
	Short: "Window and application control",
}

var winListCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := sendOK(daemon.Request{Type: "list_windows"})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPID\tCLASS\tTITLE")
		for _, win := range resp.Windows {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", win.ID, win.PID, win.Class, win.Title)
		}
		return w.Flush()
	},
}

var winFocusCmd = &cobra.Command{
	Use:   "focus [pattern]",
	Short: "Focus the first window matching a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := sendOK(daemon.Request{Type: "focus_window", Window: args[0]})
		return err
	},
}

var winFindCmd = &cobra.Command{
	Use:   "find [pattern]",
	Short: "Find a window by class or title pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := sendOK(daemon.Request{Type: "find_window", Pattern: args[0]})
		if err != nil {
			return err
		}
		if resp.Window == nil {
			fmt.Println("No matching window.")
			return nil
		}
		fmt.Printf("%s  %s  %s\n", resp.Window.ID, resp.Window.Class, resp.Window.Title)
		return nil
	},
}

var winLaunchCmd = &cobra.Command{
	Use:   "launch [app]",
	Short: "Launch an application, or focus it if already open",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := sendOK(daemon.Request{Type: "open_or_focus_application", App: args[0]})
		return err
	},
}

var winCloseCmd = &cobra.Command{
	Use:   "close [window-id]",
	Short: "Close a window by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := sendOK(daemon.Request{Type: "close_window", WindowID: args[0]})
		return err
	},
}

func init() {
	winCmd.AddCommand(winListCmd, winFocusCmd, winFindCmd, winLaunchCmd, winCloseCmd)
}
