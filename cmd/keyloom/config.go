package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// hostConfig is the on-disk host configuration.
type hostConfig struct {
	SettingsDir string   `toml:"settings_dir"`
	PluginsDir  string   `toml:"plugins_dir"`
	LogLevel    string   `toml:"log_level"`
	Scopes      []string `toml:"scopes"`
}

func defaultConfig() hostConfig {
	return hostConfig{
		LogLevel: "info",
		Scopes:   []string{"editor", "app"},
	}
}

// loadConfig resolves the effective configuration: built-in defaults, then
// the config file, then explicitly set flags. An empty settings dir leaves
// the store on its per-user default location.
func loadConfig(opts options) (hostConfig, error) {
	cfg := defaultConfig()

	if opts.configPath != "" {
		data, err := os.ReadFile(opts.configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", opts.configPath, err)
		}
	}

	if opts.set["settings"] || opts.set["s"] {
		cfg.SettingsDir = opts.settingsDir
	}
	if opts.set["plugins"] || opts.set["p"] {
		cfg.PluginsDir = opts.pluginsDir
	}
	if opts.set["log-level"] {
		cfg.LogLevel = opts.logLevel
	}

	if len(cfg.Scopes) == 0 {
		cfg.Scopes = defaultConfig().Scopes
	}
	return cfg, nil
}
