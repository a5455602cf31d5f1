package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keyloom.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(options{})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if len(cfg.Scopes) != 2 || cfg.Scopes[0] != "editor" || cfg.Scopes[1] != "app" {
		t.Errorf("Scopes = %v, want [editor app]", cfg.Scopes)
	}
	if cfg.SettingsDir != "" || cfg.PluginsDir != "" {
		t.Errorf("dirs = %q, %q, want empty", cfg.SettingsDir, cfg.PluginsDir)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfigFile(t, `
settings_dir = "/srv/keyloom/settings"
plugins_dir = "/srv/keyloom/plugins"
log_level = "debug"
scopes = ["pane", "editor", "app"]
`)

	cfg, err := loadConfig(options{configPath: path})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.SettingsDir != "/srv/keyloom/settings" {
		t.Errorf("SettingsDir = %q", cfg.SettingsDir)
	}
	if cfg.PluginsDir != "/srv/keyloom/plugins" {
		t.Errorf("PluginsDir = %q", cfg.PluginsDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	want := []string{"pane", "editor", "app"}
	if len(cfg.Scopes) != len(want) {
		t.Fatalf("Scopes = %v, want %v", cfg.Scopes, want)
	}
	for i := range want {
		if cfg.Scopes[i] != want[i] {
			t.Errorf("Scopes[%d] = %q, want %q", i, cfg.Scopes[i], want[i])
		}
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := writeConfigFile(t, `
settings_dir = "/srv/keyloom/settings"
plugins_dir = "/srv/keyloom/plugins"
log_level = "debug"
`)

	opts := options{
		configPath:  path,
		settingsDir: "/home/me/.keyloom",
		logLevel:    "error",
		set:         map[string]bool{"s": true, "log-level": true},
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.SettingsDir != "/home/me/.keyloom" {
		t.Errorf("SettingsDir = %q, want flag value", cfg.SettingsDir)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want flag value", cfg.LogLevel)
	}
	if cfg.PluginsDir != "/srv/keyloom/plugins" {
		t.Errorf("PluginsDir = %q, want file value", cfg.PluginsDir)
	}
}

func TestLoadConfig_UnsetFlagDoesNotOverride(t *testing.T) {
	path := writeConfigFile(t, `settings_dir = "/srv/keyloom/settings"`)

	// settingsDir carries the flag default but was never given on the
	// command line, so the file value must survive.
	cfg, err := loadConfig(options{configPath: path, settingsDir: ""})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.SettingsDir != "/srv/keyloom/settings" {
		t.Errorf("SettingsDir = %q, want file value", cfg.SettingsDir)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(options{configPath: filepath.Join(t.TempDir(), "absent.toml")})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := writeConfigFile(t, `settings_dir = [not toml`)
	if _, err := loadConfig(options{configPath: path}); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestLoadConfig_EmptyScopesFallBack(t *testing.T) {
	path := writeConfigFile(t, `scopes = []`)

	cfg, err := loadConfig(options{configPath: path})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if len(cfg.Scopes) != 2 || cfg.Scopes[0] != "editor" || cfg.Scopes[1] != "app" {
		t.Errorf("Scopes = %v, want defaults restored", cfg.Scopes)
	}
}
