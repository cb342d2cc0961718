// Package sinks collects the simple one-way collaborators the daemon
// dispatches to: shell commands, desktop notifications, and speech.
package sinks

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gen2brain/beeep"
)

// Shell runs whitespace-split commands and captures their output.
type Shell struct {
	workDir string
}

// NewShell creates a shell runner. workDir may be empty to inherit the
// daemon's working directory.
func NewShell(workDir string) *Shell {
	return &Shell{workDir: workDir}
}

// Run executes a command line and returns its stdout. A non-zero exit turns
// into an error carrying the command's stderr.
func (s *Shell) Run(commandLine string) (string, error) {
	parts := strings.Fields(commandLine)
	if len(parts) == 0 {
		return "", fmt.Errorf("empty command")
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	if s.workDir != "" {
		cmd.Dir = s.workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = err.Error()
			}
			return "", fmt.Errorf("command failed: %s", msg)
		}
		return "", fmt.Errorf("exec %s: %w", parts[0], err)
	}
	return stdout.String(), nil
}

// Notifier shows desktop notifications.
type Notifier struct{}

// NewNotifier returns the default notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Notify shows a desktop notification with a summary and body.
func (n *Notifier) Notify(summary, body string) error {
	if summary == "" {
		return fmt.Errorf("notification summary must not be empty")
	}
	if err := beeep.Notify(summary, body, ""); err != nil {
		return fmt.Errorf("show notification: %w", err)
	}
	return nil
}

// Speaker speaks text aloud through espeak-ng.
type Speaker struct {
	binary string
}

// NewSpeaker returns the default speaker.
func NewSpeaker() *Speaker {
	return &Speaker{binary: "espeak-ng"}
}

// Say speaks the text without waiting for playback to finish.
func (s *Speaker) Say(text string) error {
	if text == "" {
		return fmt.Errorf("nothing to say")
	}
	if err := exec.Command(s.binary, text).Start(); err != nil {
		return fmt.Errorf("start %s: %w", s.binary, err)
	}
	return nil
}
