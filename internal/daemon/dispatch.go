package daemon

import (
	"fmt"
	"time"

	"github.com/specter-dev/specter/internal/action"
	"github.com/specter-dev/specter/internal/input"
	"github.com/specter-dev/specter/internal/sinks"
	"github.com/specter-dev/specter/internal/winctl"
)

// Dispatcher routes a single action to the collaborator that performs it.
// It implements player.Executor and is also used directly by the request
// handlers for the immediate (non-recorded) input operations.
type Dispatcher struct {
	Driver   input.Driver
	Windows  winctl.Bridge
	Shell    *sinks.Shell
	Notifier *sinks.Notifier
	Speaker  *sinks.Speaker
}

// NewDispatcher wires the default collaborators.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		Driver:   input.NewRobot(),
		Windows:  winctl.NewWM(),
		Shell:    sinks.NewShell(""),
		Notifier: sinks.NewNotifier(),
		Speaker:  sinks.NewSpeaker(),
	}
}

// Execute performs one action. It is called without the session guard held,
// so a slow collaborator never blocks other clients.
func (d *Dispatcher) Execute(a action.Action) error {
	switch a.Kind {
	case action.KindMoveMouse:
		return d.Driver.MoveMouse(a.X, a.Y)
	case action.KindClickMouse:
		return d.Driver.Click(a.Button)
	case action.KindMouseDown:
		return d.Driver.ButtonDown(a.Button)
	case action.KindMouseUp:
		return d.Driver.ButtonUp(a.Button)
	case action.KindScroll:
		return d.Driver.Scroll(a.Amount, a.Axis)
	case action.KindTypeText:
		return d.Driver.TypeText(a.Text)
	case action.KindPressKey:
		return d.Driver.TapKey(a.Key)
	case action.KindKeyDown:
		return d.Driver.KeyDown(a.Key)
	case action.KindKeyUp:
		return d.Driver.KeyUp(a.Key)
	case action.KindWait:
		time.Sleep(time.Duration(a.Milliseconds) * time.Millisecond)
		return nil
	case action.KindRunCommand:
		_, err := d.Shell.Run(a.Command)
		return err
	case action.KindLaunchApp:
		return d.Windows.LaunchApplication(a.App)
	case action.KindFocusWindow:
		return d.Windows.FocusWindow(a.Window)
	case action.KindCloseWindow:
		return d.Windows.CloseWindow(a.Window)
	case action.KindShowNotification:
		return d.Notifier.Notify(a.Summary, a.Body)
	case action.KindSpeak:
		return d.Speaker.Say(a.Text)
	}
	return fmt.Errorf("unknown action kind %q", a.Kind)
}
