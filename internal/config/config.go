// Package config loads the specter daemon configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the daemon settings.
type Config struct {
	// SocketPath is the Unix socket the daemon listens on.
	SocketPath string `yaml:"socket_path"`
	// LibraryDir is the directory holding one JSON file per sequence.
	LibraryDir string `yaml:"library_dir"`
	// HistoryDB is the SQLite database recording run history.
	HistoryDB string `yaml:"history_db"`
	// MaxMessageBytes bounds a single request or response message.
	MaxMessageBytes int `yaml:"max_message_bytes"`
}

// DefaultConfig returns the defaults rooted under ~/.specter.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	base := filepath.Join(home, ".specter")
	return &Config{
		SocketPath:      filepath.Join(base, "specter.sock"),
		LibraryDir:      filepath.Join(base, "sequences"),
		HistoryDB:       filepath.Join(base, "history.db"),
		MaxMessageBytes: 8192,
	}
}

// Validate checks the configuration for impossible values.
func (c *Config) Validate() error {
	if c.SocketPath == "" {
		return fmt.Errorf("socket_path must not be empty")
	}
	if c.LibraryDir == "" {
		return fmt.Errorf("library_dir must not be empty")
	}
	if c.MaxMessageBytes < 1024 {
		return fmt.Errorf("max_message_bytes must be at least 1024")
	}
	return nil
}

// Load reads a YAML config file, falling back to defaults when the file does
// not exist. Fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromHome loads configuration from ~/.specter/config.yaml.
func LoadFromHome() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig(), nil
	}
	return Load(filepath.Join(home, ".specter", "config.yaml"))
}
