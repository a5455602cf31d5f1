package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"keyloom/internal/dispatch"
	"keyloom/internal/install"
	"keyloom/internal/logging"
	"keyloom/internal/settings"
	"keyloom/internal/shortcuts"
)

// newHostEnv wires the stack the way run does, with a temp settings dir
// and quiet logging.
func newHostEnv(t *testing.T) (*dispatch.Registry, *shortcuts.Manager) {
	t.Helper()

	store := settings.New(settings.WithUserDir(t.TempDir()), settings.WithLogger(logging.Null))
	for _, c := range builtinContributors() {
		if err := store.Register(c.ID, c.Manifest); err != nil {
			t.Fatalf("register %s: %v", c.ID, err)
		}
	}

	reg := dispatch.NewRegistry()
	if err := registerCommands(reg, logging.Null); err != nil {
		t.Fatalf("register commands: %v", err)
	}

	installer := install.New(shortcuts.NewRegistryBinder(reg), install.WithLogger(logging.Null))
	manager := shortcuts.New(store, installer, shortcuts.WithLogger(logging.Null))
	t.Cleanup(manager.Close)

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("start manager: %v", err)
	}
	return reg, manager
}

func TestBuiltinContributorsInstall(t *testing.T) {
	reg, manager := newHostEnv(t)

	rules := manager.Rules()
	if len(rules) != 8 {
		t.Fatalf("got %d rules, want 8", len(rules))
	}
	if got := manager.Collisions(); len(got) != 0 {
		t.Fatalf("unexpected collisions: %v", got)
	}
	if got := reg.BindingCount(); got != 8 {
		t.Errorf("registry has %d bindings, want 8", got)
	}

	// Every command the sample manifests bind must have a handler, or try
	// mode would dispatch into ErrUnknownCommand.
	for _, r := range rules {
		if !reg.HasCommand(r.Command) {
			t.Errorf("no handler registered for %s", r.Command)
		}
	}
}

func TestQuitCommandSignals(t *testing.T) {
	reg, _ := newHostEnv(t)

	err := reg.Dispatch(context.Background(), "app.quit", nil)
	if !errors.Is(err, errQuit) {
		t.Fatalf("app.quit returned %v, want errQuit", err)
	}
}

func TestPrintTable(t *testing.T) {
	_, manager := newHostEnv(t)

	var buf bytes.Buffer
	printTable(&buf, manager)
	out := buf.String()

	if !strings.Contains(out, "KEYS") || !strings.Contains(out, "COMMAND") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "editor.saveAll") {
		t.Errorf("missing two-chord binding row:\n%s", out)
	}
	if !strings.Contains(out, "ctrl+k ctrl+s") {
		t.Errorf("sequence keys not space joined:\n%s", out)
	}
	if !strings.Contains(out, "8 bindings") {
		t.Errorf("missing summary line:\n%s", out)
	}
	if strings.Contains(out, "collisions") {
		t.Errorf("unexpected collision report:\n%s", out)
	}
}

func TestPrintTableReportsCollisions(t *testing.T) {
	store := settings.New(settings.WithUserDir(t.TempDir()), settings.WithLogger(logging.Null))
	manifest := []byte(`{
		"keyloom.shortcuts": [
			{"command": "a.one", "keys": ["ctrl+g"], "selector": "editor"},
			{"command": "a.two", "keys": ["ctrl+g"], "selector": "editor"}
		]
	}`)
	if err := store.Register("clash", manifest); err != nil {
		t.Fatalf("register: %v", err)
	}

	reg := dispatch.NewRegistry()
	installer := install.New(shortcuts.NewRegistryBinder(reg), install.WithLogger(logging.Null))
	manager := shortcuts.New(store, installer, shortcuts.WithLogger(logging.Null))
	t.Cleanup(manager.Close)
	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("start manager: %v", err)
	}

	var buf bytes.Buffer
	printTable(&buf, manager)
	out := buf.String()

	if !strings.Contains(out, "1 bindings, 1 collisions") {
		t.Errorf("missing collision summary:\n%s", out)
	}
	if !strings.Contains(out, "a.two") {
		t.Errorf("collision detail missing dropped command:\n%s", out)
	}
}
