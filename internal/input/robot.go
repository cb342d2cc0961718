package input

import (
	"fmt"
	"strings"

	"github.com/go-vgo/robotgo"
)

// Robot is the robotgo-backed Driver used by the daemon.
type Robot struct{}

// NewRobot returns the default input driver.
func NewRobot() *Robot {
	return &Robot{}
}

var validButtons = map[string]bool{
	"left":   true,
	"right":  true,
	"middle": true,
}

// keyAliases maps common key spellings onto robotgo key names.
var keyAliases = map[string]string{
	"return":     "enter",
	"esc":        "escape",
	"del":        "delete",
	"leftarrow":  "left",
	"rightarrow": "right",
	"uparrow":    "up",
	"downarrow":  "down",
	"ctrl":       "control",
	"super":      "cmd",
	"windows":    "cmd",
	"command":    "cmd",
	"meta":       "cmd",
	"option":     "alt",
}

func checkButton(button string) error {
	if !validButtons[button] {
		return fmt.Errorf("unknown mouse button %q", button)
	}
	return nil
}

func normalizeKey(key string) string {
	k := strings.ToLower(key)
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return k
}

func (r *Robot) MoveMouse(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (r *Robot) Click(button string) error {
	if err := checkButton(button); err != nil {
		return err
	}
	robotgo.Click(button, false)
	return nil
}

func (r *Robot) ButtonDown(button string) error {
	if err := checkButton(button); err != nil {
		return err
	}
	robotgo.Toggle(button, "down")
	return nil
}

func (r *Robot) ButtonUp(button string) error {
	if err := checkButton(button); err != nil {
		return err
	}
	robotgo.Toggle(button, "up")
	return nil
}

func (r *Robot) Scroll(amount int, axis string) error {
	switch axis {
	case "up", "down", "left", "right":
	default:
		return fmt.Errorf("unknown scroll axis %q", axis)
	}
	robotgo.ScrollDir(amount, axis)
	return nil
}

func (r *Robot) TypeText(text string) error {
	robotgo.TypeStr(text)
	return nil
}

func (r *Robot) TapKey(key string) error {
	return robotgo.KeyTap(normalizeKey(key))
}

func (r *Robot) KeyDown(key string) error {
	return robotgo.KeyToggle(normalizeKey(key), "down")
}

func (r *Robot) KeyUp(key string) error {
	return robotgo.KeyToggle(normalizeKey(key), "up")
}

func (r *Robot) Location() (int, int, error) {
	x, y := robotgo.Location()
	return x, y, nil
}
