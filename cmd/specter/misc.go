package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/specter-dev/specter/internal/daemon"
)

var runCmd = &cobra.Command{
	Use:   "run [command...]",
	Short: "Run a shell command through the daemon",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := sendOK(daemon.Request{Type: "run_command", Command: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		fmt.Print(resp.Output)
		return nil
	},
}

var sayCmd = &cobra.Command{
	Use:   "say [text]",
	Short: "Speak text aloud",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := sendOK(daemon.Request{Type: "speak", Text: args[0]})
		return err
	},
}

var notifyCmd = &cobra.Command{
	Use:   "notify [summary] [body]",
	Short: "Show a desktop notification",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := ""
		if len(args) == 2 {
			body = args[1]
		}
		_, err := sendOK(daemon.Request{Type: "show_notification", Summary: args[0], Body: body})
		return err
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent recordings and playback runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := sendOK(daemon.Request{Type: "history", Limit: historyLimit})
		if err != nil {
			return err
		}
		if len(resp.Runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tKIND\tSEQUENCE\tSTEPS\tOUTCOME")
		for _, run := range resp.Runs {
			outcome := run.Outcome
			if run.Error != "" {
				outcome = fmt.Sprintf("%s (%s)", run.Outcome, run.Error)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				run.StartedAt.Local().Format("2006-01-02 15:04:05"),
				run.Kind, run.Sequence, run.Steps, outcome)
		}
		return w.Flush()
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the daemon is alive",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := sendOK(daemon.Request{Type: "ping"})
		if err != nil {
			return err
		}
		fmt.Printf("%s (daemon v%s)\n", resp.Message, resp.Version)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to show")
}
