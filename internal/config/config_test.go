package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
	if !strings.Contains(cfg.SocketPath, ".specter") {
		t.Errorf("Expected socket under ~/.specter, got %s", cfg.SocketPath)
	}
	if cfg.MaxMessageBytes < 1024 {
		t.Errorf("Default max message too small: %d", cfg.MaxMessageBytes)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load of missing file should fall back to defaults: %v", err)
	}
	if cfg.SocketPath == "" {
		t.Error("Expected default socket path")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `socket_path: /tmp/custom.sock
library_dir: /tmp/seqs
max_message_bytes: 2048
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SocketPath != "/tmp/custom.sock" {
		t.Errorf("Expected overridden socket path, got %s", cfg.SocketPath)
	}
	if cfg.LibraryDir != "/tmp/seqs" {
		t.Errorf("Expected overridden library dir, got %s", cfg.LibraryDir)
	}
	if cfg.MaxMessageBytes != 2048 {
		t.Errorf("Expected overridden max message, got %d", cfg.MaxMessageBytes)
	}
	// Unset fields keep their defaults.
	if cfg.HistoryDB == "" {
		t.Error("Unset history_db should keep its default")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("max_message_bytes: 10\n"), 0o644)

	if _, err := Load(path); err == nil {
		t.Error("Tiny max_message_bytes should be rejected")
	}

	os.WriteFile(path, []byte("socket_path: [not, a, string\n"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("Malformed YAML should be rejected")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
	}{
		{"empty socket", func(c *Config) { c.SocketPath = "" }},
		{"empty library dir", func(c *Config) { c.LibraryDir = "" }},
		{"small max message", func(c *Config) { c.MaxMessageBytes = 100 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mod(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
