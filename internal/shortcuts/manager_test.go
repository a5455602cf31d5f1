package shortcuts

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"keyloom/internal/chord"
	"keyloom/internal/dispatch"
	"keyloom/internal/install"
	"keyloom/internal/logging"
	"keyloom/internal/reconcile"
	"keyloom/internal/rule"
	"keyloom/internal/settings"
)

func newTestEnv(t *testing.T) (*Manager, *settings.Store, *dispatch.Registry) {
	t.Helper()
	store := settings.New(settings.WithUserDir(t.TempDir()), settings.WithLogger(logging.Null))
	reg := dispatch.NewRegistry()
	ins := install.New(NewRegistryBinder(reg), install.WithLogger(logging.Null))
	m := New(store, ins, WithLogger(logging.Null))
	t.Cleanup(m.Close)
	return m, store, reg
}

func registerContributor(t *testing.T, store *settings.Store, id, manifest string) {
	t.Helper()
	if err := store.Register(id, []byte(manifest)); err != nil {
		t.Fatalf("Register(%s) error: %v", id, err)
	}
}

func writeUserShortcuts(t *testing.T, store *settings.Store, content string) {
	t.Helper()
	path := filepath.Join(store.UserDir(), "shortcuts.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write user shortcuts: %v", err)
	}
}

func boundCommands(reg *dispatch.Registry) []string {
	bindings := reg.Bindings()
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.Command())
	}
	sort.Strings(out)
	return out
}

func userShortcutEntries(t *testing.T, store *settings.Store) []any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(store.UserDir(), "shortcuts.json"))
	if err != nil {
		t.Fatalf("read user shortcuts: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("decode user shortcuts: %v", err)
	}
	entries, _ := record["shortcuts"].([]any)
	return entries
}

func TestManagerStartInstallsContributorDefaults(t *testing.T) {
	m, store, reg := newTestEnv(t)
	registerContributor(t, store, "editor", `{
		"defaults": {"tabSize": 4},
		"keyloom.shortcuts": [
			{"command": "editor.save", "keys": ["ctrl+s"], "selector": "editor"},
			{"command": "editor.find", "keys": ["ctrl+f"], "selector": "editor"}
		]
	}`)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	want := []string{"editor.find", "editor.save"}
	if got := boundCommands(reg); !equalStrings(got, want) {
		t.Fatalf("bound commands = %v, want %v", got, want)
	}
	if got := len(m.Collisions()); got != 0 {
		t.Errorf("Collisions() len = %d, want 0", got)
	}

	match := reg.Match(chord.MustParseSequence("ctrl+s"), []string{"editor"})
	if match.Kind != dispatch.MatchExact {
		t.Fatalf("Match kind = %v, want exact", match.Kind)
	}
	if got := match.Binding.Command(); got != "editor.save" {
		t.Errorf("matched command = %q, want %q", got, "editor.save")
	}
}

func TestManagerUserOverrideWinsSilently(t *testing.T) {
	m, store, reg := newTestEnv(t)
	registerContributor(t, store, "editor", `{
		"keyloom.shortcuts": [
			{"command": "editor.save", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)
	writeUserShortcuts(t, store, `{
		"shortcuts": [
			{"command": "editor.saveAll", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if got := boundCommands(reg); !equalStrings(got, []string{"editor.saveAll"}) {
		t.Fatalf("bound commands = %v, want [editor.saveAll]", got)
	}
	if got := len(m.Collisions()); got != 0 {
		t.Errorf("Collisions() len = %d, want 0", got)
	}
}

func TestManagerDisabledUserRuleRemovesDefault(t *testing.T) {
	m, store, reg := newTestEnv(t)
	registerContributor(t, store, "editor", `{
		"keyloom.shortcuts": [
			{"command": "editor.save", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)
	writeUserShortcuts(t, store, `{
		"shortcuts": [
			{"keys": ["ctrl+s"], "selector": "editor", "disabled": true}
		]
	}`)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if got := reg.BindingCount(); got != 0 {
		t.Errorf("BindingCount() = %d, want 0", got)
	}
	if got := len(m.Collisions()); got != 0 {
		t.Errorf("Collisions() len = %d, want 0", got)
	}
}

func TestManagerDefaultCollisionKeepsFirstByCommand(t *testing.T) {
	m, store, reg := newTestEnv(t)
	registerContributor(t, store, "beta", `{
		"keyloom.shortcuts": [
			{"command": "editor.saveAll", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)
	registerContributor(t, store, "alpha", `{
		"keyloom.shortcuts": [
			{"command": "editor.save", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if got := boundCommands(reg); !equalStrings(got, []string{"editor.save"}) {
		t.Fatalf("bound commands = %v, want [editor.save]", got)
	}

	collisions := m.Collisions()
	if len(collisions) != 1 {
		t.Fatalf("Collisions() len = %d, want 1", len(collisions))
	}
	c := collisions[0]
	if c.Kept.Command != "editor.save" || c.Dropped.Command != "editor.saveAll" {
		t.Errorf("collision kept %q dropped %q, want kept editor.save dropped editor.saveAll",
			c.Kept.Command, c.Dropped.Command)
	}
	if c.KeptTier != reconcile.TierDefault || c.DroppedTier != reconcile.TierDefault {
		t.Errorf("collision tiers = %v/%v, want default/default", c.KeptTier, c.DroppedTier)
	}
}

func TestManagerMalformedContributorEntriesSkipped(t *testing.T) {
	m, store, reg := newTestEnv(t)
	registerContributor(t, store, "editor", `{
		"keyloom.shortcuts": [
			{"command": "editor.save", "keys": ["ctrl+s"], "selector": "editor"},
			{"command": 7},
			"nope"
		]
	}`)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if got := boundCommands(reg); !equalStrings(got, []string{"editor.save"}) {
		t.Fatalf("bound commands = %v, want [editor.save]", got)
	}
}

func TestManagerStartFailsOnMalformedUserRecord(t *testing.T) {
	m, store, reg := newTestEnv(t)
	registerContributor(t, store, "editor", `{
		"keyloom.shortcuts": [
			{"command": "editor.save", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)
	writeUserShortcuts(t, store, `{not json`)

	if err := m.Start(context.Background()); err == nil {
		t.Fatal("Start() error = nil, want parse error")
	}
	if got := reg.BindingCount(); got != 0 {
		t.Errorf("BindingCount() = %d, want 0", got)
	}

	if err := m.SetShortcut(rule.New("editor.save", "editor", "ctrl+s")); !errors.Is(err, ErrNotStarted) {
		t.Errorf("SetShortcut() error = %v, want ErrNotStarted", err)
	}

	m.Reconcile()
	if got := reg.BindingCount(); got != 0 {
		t.Errorf("BindingCount() after Reconcile = %d, want 0", got)
	}
}

func TestManagerSetShortcutPersistsAndReinstalls(t *testing.T) {
	m, store, reg := newTestEnv(t)
	registerContributor(t, store, "editor", `{
		"keyloom.shortcuts": [
			{"command": "editor.save", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if err := m.SetShortcut(rule.New("editor.saveAll", "editor", "ctrl+s")); err != nil {
		t.Fatalf("SetShortcut() error: %v", err)
	}
	if got := boundCommands(reg); !equalStrings(got, []string{"editor.saveAll"}) {
		t.Fatalf("bound commands = %v, want [editor.saveAll]", got)
	}
	if entries := userShortcutEntries(t, store); len(entries) != 1 {
		t.Fatalf("user entries = %d, want 1", len(entries))
	}

	// Same slot again replaces the existing user entry instead of stacking.
	if err := m.SetShortcut(rule.New("editor.export", "editor", "ctrl+s")); err != nil {
		t.Fatalf("SetShortcut() second error: %v", err)
	}
	if got := boundCommands(reg); !equalStrings(got, []string{"editor.export"}) {
		t.Fatalf("bound commands = %v, want [editor.export]", got)
	}
	if entries := userShortcutEntries(t, store); len(entries) != 1 {
		t.Fatalf("user entries after replace = %d, want 1", len(entries))
	}
}

func TestManagerSetShortcutRejectsInvalidRule(t *testing.T) {
	m, store, _ := newTestEnv(t)
	registerContributor(t, store, "editor", `{"keyloom.shortcuts": []}`)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := m.SetShortcut(rule.Rule{Selector: "editor", Keys: []string{"ctrl+s"}}); err == nil {
		t.Fatal("SetShortcut() error = nil, want validation error")
	}
}

func TestManagerDisableShortcutTombstones(t *testing.T) {
	m, store, reg := newTestEnv(t)
	registerContributor(t, store, "editor", `{
		"keyloom.shortcuts": [
			{"command": "editor.save", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if got := reg.BindingCount(); got != 1 {
		t.Fatalf("BindingCount() = %d, want 1", got)
	}

	if err := m.DisableShortcut([]string{"ctrl+s"}, "editor"); err != nil {
		t.Fatalf("DisableShortcut() error: %v", err)
	}
	if got := reg.BindingCount(); got != 0 {
		t.Errorf("BindingCount() after disable = %d, want 0", got)
	}

	entries := userShortcutEntries(t, store)
	if len(entries) != 1 {
		t.Fatalf("user entries = %d, want 1", len(entries))
	}
	entry, _ := entries[0].(map[string]any)
	if disabled, _ := entry["disabled"].(bool); !disabled {
		t.Errorf("user entry = %v, want disabled tombstone", entry)
	}
}

func TestManagerReloadRebuildsFromDisk(t *testing.T) {
	m, store, reg := newTestEnv(t)
	registerContributor(t, store, "editor", `{
		"keyloom.shortcuts": [
			{"command": "editor.save", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	writeUserShortcuts(t, store, `{
		"shortcuts": [
			{"command": "editor.saveAll", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)
	store.Invalidate(SettingsID)

	if got := boundCommands(reg); !equalStrings(got, []string{"editor.saveAll"}) {
		t.Fatalf("bound commands after reload = %v, want [editor.saveAll]", got)
	}
}

func TestManagerCloseDisposesAndDetaches(t *testing.T) {
	m, store, reg := newTestEnv(t)
	registerContributor(t, store, "editor", `{
		"keyloom.shortcuts": [
			{"command": "editor.save", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if got := reg.BindingCount(); got != 1 {
		t.Fatalf("BindingCount() = %d, want 1", got)
	}

	m.Close()
	if got := reg.BindingCount(); got != 0 {
		t.Errorf("BindingCount() after Close = %d, want 0", got)
	}

	writeUserShortcuts(t, store, `{
		"shortcuts": [
			{"command": "editor.saveAll", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)
	store.Invalidate(SettingsID)
	if got := reg.BindingCount(); got != 0 {
		t.Errorf("BindingCount() after post-Close reload = %d, want 0", got)
	}

	if err := m.SetShortcut(rule.New("editor.save", "editor", "ctrl+s")); !errors.Is(err, ErrNotStarted) {
		t.Errorf("SetShortcut() after Close error = %v, want ErrNotStarted", err)
	}
}

func TestManagerStartTwice(t *testing.T) {
	m, store, _ := newTestEnv(t)
	registerContributor(t, store, "editor", `{"keyloom.shortcuts": []}`)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := m.Start(context.Background()); err == nil {
		t.Fatal("second Start() error = nil, want error")
	}
}

func TestManagerReconcileBeforeStartIsNoop(t *testing.T) {
	m, _, reg := newTestEnv(t)
	m.Reconcile()
	if got := reg.BindingCount(); got != 0 {
		t.Errorf("BindingCount() = %d, want 0", got)
	}
}

func TestManagerRulesSnapshotIsolated(t *testing.T) {
	m, store, _ := newTestEnv(t)
	registerContributor(t, store, "editor", `{
		"keyloom.shortcuts": [
			{"command": "editor.save", "keys": ["ctrl+s"], "selector": "editor"}
		]
	}`)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	rules := m.Rules()
	if len(rules) != 1 {
		t.Fatalf("Rules() len = %d, want 1", len(rules))
	}
	rules[0].Keys[0] = "mutated"

	again := m.Rules()
	if again[0].Keys[0] != "ctrl+s" {
		t.Errorf("Rules() snapshot shares state: keys = %v", again[0].Keys)
	}
}

func TestRegistryBinderHandle(t *testing.T) {
	reg := dispatch.NewRegistry()
	rb := NewRegistryBinder(reg)

	h, err := rb.AddBinding("editor.save", []string{"ctrl+s"}, "editor", nil)
	if err != nil {
		t.Fatalf("AddBinding() error: %v", err)
	}
	if h == nil {
		t.Fatal("AddBinding() handle = nil, want handle")
	}
	if got := reg.BindingCount(); got != 1 {
		t.Fatalf("BindingCount() = %d, want 1", got)
	}
	h.Dispose()
	if got := reg.BindingCount(); got != 0 {
		t.Errorf("BindingCount() after Dispose = %d, want 0", got)
	}

	bad, err := rb.AddBinding("editor.save", []string{"not a chord"}, "editor", nil)
	if err == nil {
		t.Fatal("AddBinding() with bad keys error = nil, want error")
	}
	if bad != nil {
		t.Errorf("AddBinding() with bad keys handle = %v, want nil", bad)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
