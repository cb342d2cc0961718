// Package action defines the core automation step types for specter.
package action

import (
	"fmt"
	"time"
)

// Kind discriminates the closed set of automation step types.
type Kind string

const (
	KindMoveMouse        Kind = "move_mouse"
	KindClickMouse       Kind = "click_mouse"
	KindMouseDown        Kind = "mouse_down"
	KindMouseUp          Kind = "mouse_up"
	KindScroll           Kind = "scroll"
	KindTypeText         Kind = "type_text"
	KindPressKey         Kind = "press_key"
	KindKeyDown          Kind = "key_down"
	KindKeyUp            Kind = "key_up"
	KindWait             Kind = "wait"
	KindRunCommand       Kind = "run_command"
	KindLaunchApp        Kind = "launch_app"
	KindFocusWindow      Kind = "focus_window"
	KindCloseWindow      Kind = "close_window"
	KindShowNotification Kind = "show_notification"
	KindSpeak            Kind = "speak"
)

// Action is one atomic automation step. The Kind field selects which of the
// remaining fields are meaningful; all other fields are zero. Actions are
// value types and are never mutated after construction.
type Action struct {
	Kind Kind `json:"type"`

	// Mouse fields
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Button string `json:"button,omitempty"` // left, right, middle
	Amount int    `json:"amount,omitempty"`
	Axis   string `json:"axis,omitempty"` // up, down, left, right

	// Keyboard fields
	Text string `json:"text,omitempty"`
	Key  string `json:"key,omitempty"`

	// Timing
	Milliseconds uint64 `json:"milliseconds,omitempty"`

	// Shell / app / window fields
	Command string `json:"command,omitempty"`
	App     string `json:"app,omitempty"`
	Window  string `json:"window,omitempty"`

	// Notification fields
	Summary string `json:"summary,omitempty"`
	Body    string `json:"body,omitempty"`
}

// Constructors for each kind. Callers should prefer these over struct
// literals so required fields cannot be forgotten.

func MoveMouse(x, y int) Action       { return Action{Kind: KindMoveMouse, X: x, Y: y} }
func ClickMouse(button string) Action { return Action{Kind: KindClickMouse, Button: button} }
func MouseDown(button string) Action  { return Action{Kind: KindMouseDown, Button: button} }
func MouseUp(button string) Action    { return Action{Kind: KindMouseUp, Button: button} }
func Scroll(amount int, axis string) Action {
	return Action{Kind: KindScroll, Amount: amount, Axis: axis}
}
func TypeText(text string) Action { return Action{Kind: KindTypeText, Text: text} }
func PressKey(key string) Action  { return Action{Kind: KindPressKey, Key: key} }
func KeyDown(key string) Action   { return Action{Kind: KindKeyDown, Key: key} }
func KeyUp(key string) Action     { return Action{Kind: KindKeyUp, Key: key} }
func Wait(ms uint64) Action       { return Action{Kind: KindWait, Milliseconds: ms} }
func RunCommand(cmd string) Action {
	return Action{Kind: KindRunCommand, Command: cmd}
}
func LaunchApp(app string) Action    { return Action{Kind: KindLaunchApp, App: app} }
func FocusWindow(pat string) Action  { return Action{Kind: KindFocusWindow, Window: pat} }
func CloseWindow(id string) Action   { return Action{Kind: KindCloseWindow, Window: id} }
func Speak(text string) Action       { return Action{Kind: KindSpeak, Text: text} }
func ShowNotification(summary, body string) Action {
	return Action{Kind: KindShowNotification, Summary: summary, Body: body}
}

// Validate checks that the kind is known and its required fields are set.
func (a Action) Validate() error {
	switch a.Kind {
	case KindMoveMouse, KindWait:
		return nil
	case KindClickMouse, KindMouseDown, KindMouseUp:
		if a.Button == "" {
			return fmt.Errorf("action %s: button is required", a.Kind)
		}
	case KindScroll:
		switch a.Axis {
		case "up", "down", "left", "right":
		default:
			return fmt.Errorf("action scroll: unknown axis %q", a.Axis)
		}
	case KindTypeText, KindSpeak:
		if a.Text == "" {
			return fmt.Errorf("action %s: text is required", a.Kind)
		}
	case KindPressKey, KindKeyDown, KindKeyUp:
		if a.Key == "" {
			return fmt.Errorf("action %s: key is required", a.Kind)
		}
	case KindRunCommand:
		if a.Command == "" {
			return fmt.Errorf("action run_command: command is required")
		}
	case KindLaunchApp:
		if a.App == "" {
			return fmt.Errorf("action launch_app: app is required")
		}
	case KindFocusWindow, KindCloseWindow:
		if a.Window == "" {
			return fmt.Errorf("action %s: window is required", a.Kind)
		}
	case KindShowNotification:
		if a.Summary == "" {
			return fmt.Errorf("action show_notification: summary is required")
		}
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
	return nil
}

// String renders a short human-readable form used in logs and the TUI.
func (a Action) String() string {
	switch a.Kind {
	case KindMoveMouse:
		return fmt.Sprintf("move_mouse(%d,%d)", a.X, a.Y)
	case KindClickMouse, KindMouseDown, KindMouseUp:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Button)
	case KindScroll:
		return fmt.Sprintf("scroll(%d,%s)", a.Amount, a.Axis)
	case KindTypeText:
		return fmt.Sprintf("type_text(%q)", a.Text)
	case KindPressKey, KindKeyDown, KindKeyUp:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Key)
	case KindWait:
		return fmt.Sprintf("wait(%dms)", a.Milliseconds)
	case KindRunCommand:
		return fmt.Sprintf("run_command(%q)", a.Command)
	case KindLaunchApp:
		return fmt.Sprintf("launch_app(%s)", a.App)
	case KindFocusWindow, KindCloseWindow:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Window)
	case KindShowNotification:
		return fmt.Sprintf("show_notification(%q)", a.Summary)
	case KindSpeak:
		return fmt.Sprintf("speak(%q)", a.Text)
	}
	return string(a.Kind)
}

// TimedAction pairs an action with the delay since the previous action in
// its sequence. The first action of a sequence carries a zero delay.
type TimedAction struct {
	Action  Action `json:"action"`
	DelayMS uint64 `json:"delay_ms"`
}

// Sequence is a named, ordered list of timed actions.
type Sequence struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Tags        []string      `json:"tags,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Actions     []TimedAction `json:"actions"`
}

// NewSequence creates an empty sequence with the given metadata.
func NewSequence(name, description string) *Sequence {
	return &Sequence{
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}

// Append adds an action with its recorded delay.
func (s *Sequence) Append(a Action, delayMS uint64) {
	s.Actions = append(s.Actions, TimedAction{Action: a, DelayMS: delayMS})
}

// AddTag adds a tag if not already present.
func (s *Sequence) AddTag(tag string) {
	for _, t := range s.Tags {
		if t == tag {
			return
		}
	}
	s.Tags = append(s.Tags, tag)
}

// Clone returns a deep copy. The player replays a clone so concurrent
// library mutations cannot alter an in-flight playback.
func (s *Sequence) Clone() *Sequence {
	out := *s
	out.Tags = append([]string(nil), s.Tags...)
	out.Actions = append([]TimedAction(nil), s.Actions...)
	return &out
}

// Validate checks the sequence invariants: non-empty name, valid actions.
func (s *Sequence) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("sequence name must not be empty")
	}
	for i, ta := range s.Actions {
		if err := ta.Action.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// TotalDelay sums the recorded inter-step delays.
func (s *Sequence) TotalDelay() time.Duration {
	var total uint64
	for _, ta := range s.Actions {
		total += ta.DelayMS
	}
	return time.Duration(total) * time.Millisecond
}
