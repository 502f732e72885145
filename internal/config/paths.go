package config

import (
	"os"
	"path/filepath"
)

// DefaultProjectConfigPath is the flat key=value file the editors keep
// next to the record cache.
const DefaultProjectConfigPath = "cache/config"

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/twirer/config.yml
// - macOS: ~/Library/Application Support/twirer/config.yml
// - Windows: %APPDATA%\twirer\config.yml
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "twirer"), nil
}

// DefaultStateDir is where the command history is kept.
func DefaultStateDir() string {
	return filepath.Join("~", ".twirer", "state")
}
