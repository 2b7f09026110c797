package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load discovers a config file, merges it with defaults, applies environment
// variable overrides, validates the result, and returns the final config.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return LoadFrom(cwd)
}

// LoadFrom loads config using the given directory as the starting point for
// file discovery. This is the testable entry point; Load() calls it with
// os.Getwd().
func LoadFrom(dir string) (*Config, error) {
	cfg := DefaultConfig()

	path, err := discoverConfigPath(dir)
	if err != nil {
		return nil, fmt.Errorf("config discovery: %w", err)
	}

	if path != "" {
		override, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		merge(&cfg, override)
	}

	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigPath searches the discovery chain and returns the first config
// file that exists. Returns empty string if none found (defaults-only mode).
func discoverConfigPath(dir string) (string, error) {
	// 1. ./kbchat.yaml (relative to current dir)
	local := filepath.Join(dir, "kbchat.yaml")
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	// 2. ~/.config/kbchat/config.yaml
	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil // can't resolve home, skip
	}
	user := filepath.Join(home, ".config", "kbchat", "config.yaml")
	if _, err := os.Stat(user); err == nil {
		return user, nil
	}

	return "", nil
}

// loadFromFile reads and unmarshals a YAML config file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	return &cfg, nil
}

// merge overlays override onto base. Scalar fields override when non-zero;
// pointer-to-bool fields override when non-nil.
func merge(base *Config, override *Config) {
	// Server
	if override.Server.BaseURL != "" {
		base.Server.BaseURL = override.Server.BaseURL
	}
	if override.Server.TimeoutSeconds != 0 {
		base.Server.TimeoutSeconds = override.Server.TimeoutSeconds
	}

	// Query
	if override.Query.DefaultMode != "" {
		base.Query.DefaultMode = override.Query.DefaultMode
	}
	if override.Query.RequireGraph != nil {
		base.Query.RequireGraph = override.Query.RequireGraph
	}

	// UI
	if override.UI.Theme != "" {
		base.UI.Theme = override.UI.Theme
	}
	if override.UI.ShowToolDetail != nil {
		base.UI.ShowToolDetail = override.UI.ShowToolDetail
	}
	if override.UI.ShowMindmap != nil {
		base.UI.ShowMindmap = override.UI.ShowMindmap
	}

	// Outbox
	if override.Outbox.Dir != "" {
		base.Outbox.Dir = override.Outbox.Dir
	}

	// Update
	if override.Update.CheckOnStartup != nil {
		base.Update.CheckOnStartup = override.Update.CheckOnStartup
	}
}

// applyEnvOverrides applies KBCHAT_* environment variables on top of the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KBCHAT_SERVER"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("KBCHAT_MODE"); v != "" {
		cfg.Query.DefaultMode = v
	}
	if v := os.Getenv("KBCHAT_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("KBCHAT_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.TimeoutSeconds = n
		} else {
			fmt.Fprintf(os.Stderr, "warning: KBCHAT_TIMEOUT=%q is not a valid integer, ignoring\n", v)
		}
	}
}
