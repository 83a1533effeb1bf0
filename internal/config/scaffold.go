package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scaffold prepares a fresh install: sleepy.toml in configDir plus the state
// and journal directories. Existing files are left untouched. Returns the
// paths it created.
func Scaffold(configDir, stateDir string) ([]string, error) {
	var created []string

	if !exists(filepath.Join(configDir, FileName)) {
		path, err := InitFile(configDir)
		if err != nil {
			return created, err
		}
		created = append(created, path)
	}

	cfg := Defaults()
	for _, dir := range []string{stateDir, cfg.JournalDir(stateDir)} {
		if exists(dir) {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return created, fmt.Errorf("scaffold: mkdir %s: %w", dir, err)
		}
		created = append(created, dir)
	}
	return created, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
