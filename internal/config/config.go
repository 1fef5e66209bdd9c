// Package config loads mnemo's configuration from environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration, loaded from MNEMO_-prefixed
// environment variables. The storage root is injected into the record
// store rather than read as ambient state, so tests can redirect storage
// per case.
type Config struct {
	// DataDir is the storage root. Defaults to ~/.mnemo.
	DataDir string `envconfig:"DATA_DIR"`

	// SessionID identifies the current assistant session. When unset the
	// server generates one at startup.
	SessionID string `envconfig:"SESSION_ID"`

	// LogLevel controls zerolog's level for stderr diagnostics.
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
}

// Load reads configuration from the environment and applies defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("mnemo", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.DataDir == "" {
		home, _ := os.UserHomeDir()
		cfg.DataDir = filepath.Join(home, ".mnemo")
	}
	return cfg, nil
}
