package sinks

import (
	"strings"
	"testing"
)

func TestShellRun(t *testing.T) {
	sh := NewShell("")

	out, err := sh.Run("echo hello world")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.TrimSpace(out) != "hello world" {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestShellRunWorkDir(t *testing.T) {
	dir := t.TempDir()
	sh := NewShell(dir)

	out, err := sh.Run("pwd")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(strings.TrimSpace(out), dir) {
		t.Errorf("Expected output under %s, got %q", dir, out)
	}
}

func TestShellRunEmpty(t *testing.T) {
	sh := NewShell("")

	if _, err := sh.Run(""); err == nil {
		t.Error("Empty command should fail")
	}
	if _, err := sh.Run("   "); err == nil {
		t.Error("Blank command should fail")
	}
}

func TestShellRunMissingBinary(t *testing.T) {
	sh := NewShell("")

	if _, err := sh.Run("definitely-not-a-real-binary-42"); err == nil {
		t.Error("Missing binary should fail")
	}
}

func TestShellRunNonZeroExit(t *testing.T) {
	sh := NewShell("")

	_, err := sh.Run("false")
	if err == nil {
		t.Fatal("Non-zero exit should fail")
	}
	if !strings.Contains(err.Error(), "command failed") {
		t.Errorf("Unexpected error text: %v", err)
	}
}

func TestNotifyRejectsEmptySummary(t *testing.T) {
	n := NewNotifier()

	if err := n.Notify("", "body"); err == nil {
		t.Error("Empty summary should be rejected")
	}
}

func TestSayRejectsEmptyText(t *testing.T) {
	s := NewSpeaker()

	if err := s.Say(""); err == nil {
		t.Error("Empty text should be rejected")
	}
}
