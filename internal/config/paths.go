package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvHome overrides the state directory.
const EnvHome = "SLEEPY_HOME"

// ConfigDir returns the per-user directory searched for sleepy.toml.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: user config dir: %w", err)
	}
	return filepath.Join(dir, "sleepy"), nil
}

// StateDir returns where history, journals and the log live: $SLEEPY_HOME,
// else $XDG_STATE_HOME/sleepy, else ~/.local/state/sleepy.
func StateDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "sleepy"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", "sleepy"), nil
}

// HistoryPath returns the configured history location, defaulting to a
// backend-specific file under stateDir.
func (c *Config) HistoryPath(stateDir string) string {
	if c.History.Path != "" {
		return c.History.Path
	}
	if c.History.Backend == BackendSQLite {
		return filepath.Join(stateDir, "history.db")
	}
	return filepath.Join(stateDir, "history.json")
}

// JournalDir returns the configured journal directory, defaulting to
// <stateDir>/sessions.
func (c *Config) JournalDir(stateDir string) string {
	if c.Journal.Dir != "" {
		return c.Journal.Dir
	}
	return filepath.Join(stateDir, "sessions")
}

// LogPath returns the diagnostic log file used while the TUI owns the
// terminal.
func LogPath(stateDir string) string {
	return filepath.Join(stateDir, "sleepy.log")
}
