// Package xdg provides XDG Base Directory Specification compliant paths
package xdg

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDir returns the XDG config directory for ush
// Priority: XDG_CONFIG_HOME > ~/.config/ush
func ConfigDir() (string, error) {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "ush"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "ush"), nil
}

// DataDir returns the XDG data directory for ush
// Priority: XDG_DATA_HOME > ~/.local/share/ush
func DataDir() (string, error) {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "ush"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", "ush"), nil
}

// StateDir returns the XDG state directory for ush
// Priority: XDG_STATE_HOME > ~/.local/state/ush
func StateDir() (string, error) {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "ush"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "state", "ush"), nil
}

// RuntimeDir returns the XDG runtime directory for ush
// Priority: XDG_RUNTIME_DIR > /tmp/ush-$UID
func RuntimeDir() (string, error) {
	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		return filepath.Join(xdgRuntime, "ush"), nil
	}

	uid := os.Getuid()
	return filepath.Join("/tmp", fmt.Sprintf("ush-%d", uid)), nil
}

// LogsDir returns the directory for storing log files
// Uses state directory as the base
func LogsDir() string {
	stateDir, err := StateDir()
	if err != nil {
		dataDir, _ := DataDir()
		return filepath.Join(dataDir, "logs")
	}
	return filepath.Join(stateDir, "logs")
}
