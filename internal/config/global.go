package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"ush/internal/constants"
	"ush/internal/xdg"
)

// GlobalConfig represents the global ush configuration stored under the XDG
// config directory as config.toml
type GlobalConfig struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
}

type ServerConfig struct {
	Port int `toml:"port"` // Status API port
}

type StorageConfig struct {
	WorktreesPath string `toml:"worktrees_path"` // Default worktree location
}

// DefaultGlobalConfig returns the default global configuration
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Server: ServerConfig{
			Port: constants.DefaultServerPort,
		},
		Storage: StorageConfig{
			WorktreesPath: "~/repos/worktrees/ushadow",
		},
	}
}

// LoadGlobalConfig loads the global configuration from the XDG config
// directory, returning defaults when no file exists
func LoadGlobalConfig() (*GlobalConfig, error) {
	configDir, err := xdg.ConfigDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDir, "config.toml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultGlobalConfig()
		if err := expandPaths(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg GlobalConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	defaults := DefaultGlobalConfig()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Storage.WorktreesPath == "" {
		cfg.Storage.WorktreesPath = defaults.Storage.WorktreesPath
	}

	if err := expandPaths(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveGlobalConfig writes the global configuration to the XDG config directory
func SaveGlobalConfig(cfg *GlobalConfig) error {
	configDir, err := xdg.ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, constants.DirPermissions); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.toml"), data, constants.FilePermissions)
}

// expandPaths expands tilde prefixes in configured paths
func expandPaths(cfg *GlobalConfig) error {
	expanded, err := expandTilde(cfg.Storage.WorktreesPath)
	if err != nil {
		return err
	}
	cfg.Storage.WorktreesPath = expanded
	return nil
}

func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if path == "~" {
		return homeDir, nil
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~/")), nil
}
