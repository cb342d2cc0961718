package winctl

import (
	"errors"
	"testing"
)

func TestParseWmctrlLine(t *testing.T) {
	line := "0x03a00003  0 1234   navigator.Firefox  myhost  Example Domain - Mozilla Firefox"

	info, ok := parseWmctrlLine(line)
	if !ok {
		t.Fatal("Expected line to parse")
	}
	if info.ID != "0x03a00003" {
		t.Errorf("Expected ID 0x03a00003, got %s", info.ID)
	}
	if info.Desktop != 0 {
		t.Errorf("Expected desktop 0, got %d", info.Desktop)
	}
	if info.PID != 1234 {
		t.Errorf("Expected PID 1234, got %d", info.PID)
	}
	if info.Class != "navigator.Firefox" {
		t.Errorf("Expected class navigator.Firefox, got %s", info.Class)
	}
	if info.Machine != "myhost" {
		t.Errorf("Expected machine myhost, got %s", info.Machine)
	}
	if info.Title != "Example Domain - Mozilla Firefox" {
		t.Errorf("Title not joined correctly: %q", info.Title)
	}
}

func TestParseWmctrlLineNoTitle(t *testing.T) {
	info, ok := parseWmctrlLine("0x0420  1 99  term.Term  host")
	if !ok {
		t.Fatal("Expected line to parse")
	}
	if info.Title != "" {
		t.Errorf("Expected empty title, got %q", info.Title)
	}
	if info.Desktop != 1 {
		t.Errorf("Expected desktop 1, got %d", info.Desktop)
	}
}

func TestParseWmctrlLineRejectsShort(t *testing.T) {
	for _, line := range []string{"", "0x0420", "0x0420 0 99", "   "} {
		if _, ok := parseWmctrlLine(line); ok {
			t.Errorf("Line %q should not parse", line)
		}
	}
}

func TestFirstLine(t *testing.T) {
	err := errors.New("exit status 1")

	if got := firstLine([]byte("first\nsecond"), err); got != "first" {
		t.Errorf("Expected first line, got %q", got)
	}
	if got := firstLine([]byte("  trimmed  \n"), err); got != "trimmed" {
		t.Errorf("Expected trimmed line, got %q", got)
	}
	// Empty output falls back to the error text.
	if got := firstLine(nil, err); got != "exit status 1" {
		t.Errorf("Expected error fallback, got %q", got)
	}
}

func TestLaunchApplicationRejectsEmpty(t *testing.T) {
	w := NewWM()
	if err := w.LaunchApplication(""); err == nil {
		t.Error("Empty application name should be rejected")
	}
}
