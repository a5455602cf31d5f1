package settings

import (
	"keyloom/internal/settings/loader"
	"keyloom/internal/settings/notify"
)

// Settings is the live handle for one resolved record. Accessors return
// deep copies of the current state, so callers hold a snapshot the store
// never mutates underneath them.
type Settings struct {
	store *Store
	id    string
}

// ID returns the record id.
func (st *Settings) ID() string {
	return st.id
}

// Composite returns the resolved record: effective defaults deep-merged
// with user overrides.
func (st *Settings) Composite() map[string]any {
	st.store.mu.RLock()
	defer st.store.mu.RUnlock()

	rec, ok := st.store.records[st.id]
	if !ok {
		return nil
	}
	return loader.Clone(rec.composite)
}

// Defaults returns the record's effective defaults (post-transform).
func (st *Settings) Defaults() map[string]any {
	st.store.mu.RLock()
	defer st.store.mu.RUnlock()

	rec, ok := st.store.records[st.id]
	if !ok {
		return nil
	}
	return loader.Clone(rec.defaults)
}

// User returns the record's user overrides. Nil when no user file exists.
func (st *Settings) User() map[string]any {
	st.store.mu.RLock()
	defer st.store.mu.RUnlock()

	rec, ok := st.store.records[st.id]
	if !ok {
		return nil
	}
	return loader.Clone(rec.user)
}

// Get returns the composite value at a dot-separated path.
func (st *Settings) Get(path string) (any, bool) {
	return getPath(st.Composite(), path)
}

// Changed registers an observer for changes to this record.
func (st *Settings) Changed(obs notify.Observer) *notify.Subscription {
	return st.store.notifier.SubscribeRecord(st.id, obs)
}
