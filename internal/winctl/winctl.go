// Package winctl provides window and process control for the daemon. The
// default implementation shells out to the standard X11 window tools
// (wmctrl, xdotool, pgrep), which is how every desktop automation stack on
// Linux drives the window manager.
package winctl

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// WindowInfo describes one managed window.
type WindowInfo struct {
	ID      string `json:"id"`
	PID     int    `json:"pid"`
	Desktop int    `json:"desktop"`
	Class   string `json:"class"`
	Title   string `json:"title"`
	Machine string `json:"machine"`
}

// Bridge performs window and process discovery and control.
type Bridge interface {
	IsProcessRunning(name string) (bool, error)
	LaunchApplication(app string) error
	FocusWindow(pattern string) error
	ListWindows() ([]WindowInfo, error)
	FindWindow(pattern string) (*WindowInfo, error)
	IsApplicationVisible(pattern string) (bool, error)
	MaximizeWindow(id string) error
	MinimizeWindow(id string) error
	CloseWindow(id string) error
	MoveResizeWindow(id string, x, y, width, height int) error
	OpenOrFocusApplication(app, launchCommand string) error
}

// WM is the wmctrl/xdotool-backed Bridge.
type WM struct{}

// NewWM returns the default window bridge.
func NewWM() *WM {
	return &WM{}
}

func (w *WM) IsProcessRunning(name string) (bool, error) {
	err := exec.Command("pgrep", "-x", name).Run()
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		return false, nil
	}
	return false, fmt.Errorf("run pgrep: %w", err)
}

func (w *WM) LaunchApplication(app string) error {
	if app == "" {
		return fmt.Errorf("application name must not be empty")
	}
	if err := exec.Command(app).Start(); err != nil {
		return fmt.Errorf("launch %s: %w", app, err)
	}
	return nil
}

func (w *WM) FocusWindow(pattern string) error {
	out, err := exec.Command("wmctrl", "-a", pattern).CombinedOutput()
	if err != nil {
		return fmt.Errorf("focus window %q: %s", pattern, firstLine(out, err))
	}
	return nil
}

func (w *WM) ListWindows() ([]WindowInfo, error) {
	out, err := exec.Command("wmctrl", "-l", "-p", "-x").Output()
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}

	var windows []WindowInfo
	for _, line := range strings.Split(string(out), "\n") {
		if info, ok := parseWmctrlLine(line); ok {
			windows = append(windows, info)
		}
	}
	return windows, nil
}

func (w *WM) FindWindow(pattern string) (*WindowInfo, error) {
	windows, err := w.ListWindows()
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(pattern)
	for i := range windows {
		if strings.Contains(strings.ToLower(windows[i].Class), lower) ||
			strings.Contains(strings.ToLower(windows[i].Title), lower) {
			return &windows[i], nil
		}
	}
	return nil, nil
}

func (w *WM) IsApplicationVisible(pattern string) (bool, error) {
	info, err := w.FindWindow(pattern)
	if err != nil {
		return false, err
	}
	return info != nil, nil
}

func (w *WM) MaximizeWindow(id string) error {
	return wmctrlWindowOp(id, "-b", "add,maximized_vert,maximized_horz")
}

func (w *WM) MinimizeWindow(id string) error {
	return wmctrlWindowOp(id, "-b", "add,hidden")
}

func (w *WM) CloseWindow(id string) error {
	out, err := exec.Command("wmctrl", "-i", "-c", id).CombinedOutput()
	if err != nil {
		return fmt.Errorf("close window %s: %s", id, firstLine(out, err))
	}
	return nil
}

func (w *WM) MoveResizeWindow(id string, x, y, width, height int) error {
	geometry := fmt.Sprintf("0,%d,%d,%d,%d", x, y, width, height)
	return wmctrlWindowOp(id, "-e", geometry)
}

// OpenOrFocusApplication focuses an existing window for app, or launches it
// when nothing matches. launchCommand overrides the launch binary when the
// app name is not itself executable.
func (w *WM) OpenOrFocusApplication(app, launchCommand string) error {
	if info, err := w.FindWindow(app); err == nil && info != nil {
		return w.FocusWindow(info.Title)
	}

	if running, err := w.IsProcessRunning(app); err == nil && running {
		if w.FocusWindow(app) == nil {
			return nil
		}
	}

	cmd := launchCommand
	if cmd == "" {
		cmd = app
	}
	if err := w.LaunchApplication(cmd); err != nil {
		return err
	}
	// Give the application a moment to map its first window.
	time.Sleep(500 * time.Millisecond)
	return nil
}

func wmctrlWindowOp(id string, args ...string) error {
	full := append([]string{"-i", "-r", id}, args...)
	out, err := exec.Command("wmctrl", full...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("wmctrl %s: %s", strings.Join(args, " "), firstLine(out, err))
	}
	return nil
}

// parseWmctrlLine parses one `wmctrl -l -p -x` line:
//
//	0x03a00003  0 1234   navigator.Firefox  host  Page Title
func parseWmctrlLine(line string) (WindowInfo, bool) {
	parts := strings.Fields(line)
	if len(parts) < 5 {
		return WindowInfo{}, false
	}

	desktop, _ := strconv.Atoi(parts[1])
	pid, _ := strconv.Atoi(parts[2])

	info := WindowInfo{
		ID:      parts[0],
		Desktop: desktop,
		PID:     pid,
		Class:   parts[3],
		Machine: parts[4],
	}
	if len(parts) > 5 {
		info.Title = strings.Join(parts[5:], " ")
	}
	return info, true
}

func firstLine(out []byte, err error) string {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return err.Error()
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
