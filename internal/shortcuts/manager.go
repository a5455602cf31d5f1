package shortcuts

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"keyloom/internal/install"
	"keyloom/internal/logging"
	"keyloom/internal/reconcile"
	"keyloom/internal/rule"
	"keyloom/internal/settings"
	"keyloom/internal/settings/notify"
)

// Manager owns the shortcuts settings record and keeps the installed
// binding group in sync with it.
type Manager struct {
	store     *settings.Store
	installer *install.Installer
	log       *logging.Logger

	mu         sync.Mutex
	settings   *settings.Settings
	sub        *notify.Subscription
	rules      []rule.Rule
	collisions []reconcile.Collision
	started    bool
	closed     bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used by the manager.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l.WithComponent("shortcuts")
		}
	}
}

// New creates a Manager backed by the given store and installer. The
// manager is inert until Start succeeds.
func New(store *settings.Store, installer *install.Installer, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		installer: installer,
		log:       logging.Default().WithComponent("shortcuts"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start registers the shortcuts record, loads it, and installs the merged
// table. It subscribes to record changes so later edits rebuild the
// installed group. If the initial load fails the manager stays inert and
// the error is returned; Start is not retried internally.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrNotStarted
	}
	if m.started {
		return errors.New("shortcuts manager already started")
	}

	if err := m.store.Register(SettingsID, recordManifest); err != nil && !errors.Is(err, settings.ErrAlreadyRegistered) {
		return err
	}
	if err := m.store.Transform(SettingsID, m.effectiveDefaults); err != nil {
		return err
	}

	st, err := m.store.Load(ctx, SettingsID)
	if err != nil {
		m.log.Warn("shortcuts disabled: %v", err)
		return err
	}
	m.settings = st

	m.cycleLocked()

	m.sub = st.Changed(func(notify.Change) {
		m.Reconcile()
	})
	m.started = true
	return nil
}

// Reconcile re-reads the shortcuts record and rebuilds the installed
// group. It is a no-op before Start and after Close.
func (m *Manager) Reconcile() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started || m.closed {
		return
	}
	m.cycleLocked()
}

// Close unsubscribes from record changes and disposes the installed group.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	if m.sub != nil {
		m.sub.Unsubscribe()
		m.sub = nil
	}
	m.installer.Close()
}

// Rules returns the rules installed by the most recent cycle.
func (m *Manager) Rules() []rule.Rule {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]rule.Rule, len(m.rules))
	for i, r := range m.rules {
		out[i] = r.Clone()
	}
	return out
}

// Collisions returns the default-tier collisions found by the most recent
// cycle.
func (m *Manager) Collisions() []reconcile.Collision {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]reconcile.Collision, len(m.collisions))
	copy(out, m.collisions)
	return out
}

// SetShortcut writes a user-tier rule to the shortcuts record. An existing
// user rule with the same keys and selector is replaced, otherwise the rule
// is appended. The write triggers a reconcile cycle through the store's
// change notification.
func (m *Manager) SetShortcut(r rule.Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return m.upsertUserRule(r)
}

// DisableShortcut writes a user-tier tombstone for the given keys and
// selector, removing the matching default from the merged table.
func (m *Manager) DisableShortcut(keys []string, selector string) error {
	r := rule.Rule{Keys: keys, Selector: selector, Disabled: true}
	return m.upsertUserRule(r)
}

// upsertUserRule rewrites the user shortcuts list with r replacing any
// entry that occupies the same slot. The store write must not happen under
// m.mu: the store notifies synchronously and the observer re-enters
// Reconcile.
func (m *Manager) upsertUserRule(r rule.Rule) error {
	m.mu.Lock()
	if !m.started || m.closed {
		m.mu.Unlock()
		return ErrNotStarted
	}
	st := m.settings
	m.mu.Unlock()

	slot := r.Slot()
	list, _ := st.User()["shortcuts"].([]any)

	out := make([]any, 0, len(list)+1)
	replaced := false
	for _, entry := range list {
		prev, err := rule.Decode(entry)
		if err == nil && prev.Slot() == slot {
			if !replaced {
				out = append(out, r.Map())
				replaced = true
			}
			continue
		}
		out = append(out, entry)
	}
	if !replaced {
		out = append(out, r.Map())
	}

	return m.store.Set(SettingsID, "shortcuts", out)
}

// cycleLocked runs one reconcile cycle: decode both tiers, merge, log
// collisions, and swap the installed group. Callers hold m.mu.
func (m *Manager) cycleLocked() {
	defaults := decodeRules(m.settings.Defaults()["shortcuts"])
	user := decodeRules(m.settings.User()["shortcuts"])

	result := reconcile.Merge(defaults, user)
	for _, c := range result.Collisions {
		m.log.Warn("shortcut collision: %s", c)
	}

	m.installer.Install(result.Rules)
	m.rules = result.Rules
	m.collisions = result.Collisions
}

// effectiveDefaults rebuilds the shortcuts record's default tier from the
// manifests of every other registered contributor, in registration order.
// It runs inside the store's resolve path, so it must not touch m.mu.
func (m *Manager) effectiveDefaults(defaults map[string]any) map[string]any {
	key := strings.ReplaceAll(ExtensionKey, ".", `\.`)
	list := make([]any, 0)
	for _, id := range m.store.Contributors() {
		if id == SettingsID {
			continue
		}
		manifest, ok := m.store.Manifest(id)
		if !ok {
			continue
		}
		decl := gjson.GetBytes(manifest, key)
		if !decl.IsArray() {
			continue
		}
		for _, entry := range decl.Array() {
			r, err := rule.Decode(entry.Value())
			if err != nil {
				m.log.Debug("contributor %s: dropping malformed shortcut: %v", id, err)
				continue
			}
			list = append(list, r.Map())
		}
	}
	if defaults == nil {
		defaults = make(map[string]any)
	}
	defaults["shortcuts"] = list
	return defaults
}

// decodeRules converts a raw settings value into rules, dropping entries
// that are not rule-shaped.
func decodeRules(v any) []rule.Rule {
	entries, ok := v.([]any)
	if !ok {
		return nil
	}
	rules := make([]rule.Rule, 0, len(entries))
	for _, entry := range entries {
		r, err := rule.Decode(entry)
		if err != nil {
			continue
		}
		rules = append(rules, r)
	}
	return rules
}
