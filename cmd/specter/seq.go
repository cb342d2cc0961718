package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/specter-dev/specter/internal/daemon"
)

var seqCmd = &cobra.Command{
	Use:   "seq",
	Short: "Manage recorded sequences",
}

var seqListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sequences",
	RunE:  runSeqList,
}

var seqShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a sequence's steps",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeqShow,
}

var seqPlayCmd = &cobra.Command{
	Use:   "play [name]",
	Short: "Replay a sequence (blocks until done)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeqPlay,
}

var seqStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the playback in progress",
	RunE:  runSeqStop,
}

var seqStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show playback progress",
	RunE:  runSeqStatus,
}

var seqDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a stored sequence",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeqDelete,
}

func init() {
	seqCmd.AddCommand(seqListCmd, seqShowCmd, seqPlayCmd, seqStopCmd, seqStatusCmd, seqDeleteCmd)
}

func runSeqList(cmd *cobra.Command, args []string) error {
	resp, err := sendOK(daemon.Request{Type: "list_sequences"})
	if err != nil {
		return err
	}
	if len(resp.Sequences) == 0 {
		fmt.Println("No sequences recorded yet.")
		return nil
	}
	for _, name := range resp.Sequences {
		fmt.Println(name)
	}
	return nil
}

func runSeqShow(cmd *cobra.Command, args []string) error {
	resp, err := sendOK(daemon.Request{Type: "get_sequence", Name: args[0]})
	if err != nil {
		return err
	}
	seq := resp.Detail
	if seq == nil {
		return fmt.Errorf("daemon returned no sequence")
	}

	fmt.Printf("Name:        %s\n", seq.Name)
	if seq.Description != "" {
		fmt.Printf("Description: %s\n", seq.Description)
	}
	fmt.Printf("Created:     %s\n", seq.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Steps:       %d (total delay %s)\n\n", len(seq.Actions), seq.TotalDelay())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDELAY\tACTION")
	for i, step := range seq.Actions {
		fmt.Fprintf(w, "%d\t+%dms\t%s\n", i, step.DelayMS, step.Action)
	}
	return w.Flush()
}

func runSeqPlay(cmd *cobra.Command, args []string) error {
	if _, err := sendOK(daemon.Request{Type: "load_sequence", Name: args[0]}); err != nil {
		return err
	}
	fmt.Printf("Playing %s...\n", args[0])
	if _, err := sendOK(daemon.Request{Type: "play_sequence"}); err != nil {
		return err
	}
	fmt.Println("Done.")
	return nil
}

func runSeqStop(cmd *cobra.Command, args []string) error {
	if _, err := sendOK(daemon.Request{Type: "stop_playback"}); err != nil {
		return err
	}
	fmt.Println("Playback stopped.")
	return nil
}

func runSeqStatus(cmd *cobra.Command, args []string) error {
	resp, err := sendOK(daemon.Request{Type: "playback_status"})
	if err != nil {
		return err
	}
	if resp.Playing != nil && *resp.Playing {
		fmt.Printf("Playing %s: step %d/%d\n", resp.Sequence, resp.Steps, resp.Total)
	} else if resp.Sequence != "" {
		fmt.Printf("Idle, %s loaded\n", resp.Sequence)
	} else {
		fmt.Println("Idle")
	}
	return nil
}

func runSeqDelete(cmd *cobra.Command, args []string) error {
	if _, err := sendOK(daemon.Request{Type: "delete_sequence", Name: args[0]}); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
