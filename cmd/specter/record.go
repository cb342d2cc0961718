package main

import (
	"fmt"
	"unicode"

	"github.com/go-vgo/robotgo"
	hook "github.com/robotn/gohook"
	"github.com/spf13/cobra"

	"github.com/specter-dev/specter/internal/action"
	"github.com/specter-dev/specter/internal/daemon"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record action sequences",
}

var recordDesc string

var recordStartCmd = &cobra.Command{
	Use:   "start [name]",
	Short: "Start a recording session",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordStart,
}

var recordStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the recording session and save the sequence",
	RunE:  runRecordStop,
}

var recordStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a recording is in progress",
	RunE:  runRecordStatus,
}

var recordLiveCmd = &cobra.Command{
	Use:   "live [name]",
	Short: "Record real mouse clicks and key presses until Esc",
	Long: `Starts a recording session and captures your actual mouse clicks and key
presses as sequence steps. Press Esc to stop and save.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecordLive,
}

func init() {
	recordStartCmd.Flags().StringVar(&recordDesc, "desc", "", "Sequence description")
	recordLiveCmd.Flags().StringVar(&recordDesc, "desc", "", "Sequence description")
	recordCmd.AddCommand(recordStartCmd, recordStopCmd, recordStatusCmd, recordLiveCmd)
}

func runRecordStart(cmd *cobra.Command, args []string) error {
	_, err := sendOK(daemon.Request{Type: "start_recording", Name: args[0], Description: recordDesc})
	if err != nil {
		return err
	}
	fmt.Printf("Recording %q. Use 'specter record stop' to finish.\n", args[0])
	return nil
}

func runRecordStop(cmd *cobra.Command, args []string) error {
	resp, err := sendOK(daemon.Request{Type: "stop_recording"})
	if err != nil {
		return err
	}
	if resp.Steps == 0 {
		fmt.Println("Recording stopped: no actions captured, nothing saved.")
		return nil
	}
	fmt.Printf("Saved %q with %d steps.\n", resp.Sequence, resp.Steps)
	return nil
}

func runRecordStatus(cmd *cobra.Command, args []string) error {
	resp, err := sendOK(daemon.Request{Type: "is_recording"})
	if err != nil {
		return err
	}
	if resp.Recording != nil && *resp.Recording {
		fmt.Println("Recording in progress.")
	} else {
		fmt.Println("Not recording.")
	}
	return nil
}

func runRecordLive(cmd *cobra.Command, args []string) error {
	name := args[0]
	if _, err := sendOK(daemon.Request{Type: "start_recording", Name: name, Description: recordDesc}); err != nil {
		return err
	}

	fmt.Println("Capturing clicks and key presses. Press Esc to stop.")

	evCh := hook.Start()
	defer hook.End()

capture:
	for ev := range evCh {
		switch ev.Kind {
		case hook.MouseDown:
			x, y := robotgo.Location()
			recordStep(action.MoveMouse(x, y))
			recordStep(action.ClickMouse(buttonName(ev.Button)))

		case hook.KeyDown:
			if ev.Keychar == 27 { // Esc
				break capture
			}
			if unicode.IsPrint(rune(ev.Keychar)) {
				recordStep(action.TypeText(string(rune(ev.Keychar))))
			}
		}
	}

	resp, err := sendOK(daemon.Request{Type: "stop_recording"})
	if err != nil {
		return err
	}
	fmt.Printf("Saved %q with %d steps.\n", resp.Sequence, resp.Steps)
	return nil
}

func recordStep(a action.Action) {
	if _, err := sendOK(daemon.Request{Type: "record_action", Action: &a}); err != nil {
		fmt.Printf("Failed to record %s: %v\n", a, err)
	}
}

// buttonName maps the X11 button numbering used by the event hook.
func buttonName(button uint16) string {
	switch button {
	case 2:
		return "middle"
	case 3:
		return "right"
	default:
		return "left"
	}
}
