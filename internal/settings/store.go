// Package settings provides the persistent settings store: contributor
// manifests, layered defaults/user resolution, change notification, and
// write-through updates.
//
// Each contributor registers a raw JSON manifest whose "defaults" object
// supplies the record's default values. A record's resolved state is the
// deep merge of those defaults (passed through the record's transform when
// one is registered) with user overrides read from `<id>.json` or
// `<id>.toml` in the user directory. Manifests are opaque to the store;
// domain consumers extract their own keys with gjson.
package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"keyloom/internal/logging"
	"keyloom/internal/settings/loader"
	"keyloom/internal/settings/notify"
)

// TransformFunc rewrites a record's manifest defaults into its effective
// defaults at resolve time. The returned map replaces the input; returning
// nil yields empty defaults.
type TransformFunc func(defaults map[string]any) map[string]any

type contributor struct {
	id       string
	manifest []byte
}

// record is the resolved state of one settings record.
type record struct {
	defaults  map[string]any // effective, post-transform
	user      map[string]any
	composite map[string]any
	handle    *Settings
}

// Store manages contributors and resolved settings records.
type Store struct {
	mu           sync.RWMutex
	userDir      string
	contributors map[string]*contributor
	order        []string // registration order
	transforms   map[string]TransformFunc
	records      map[string]*record
	notifier     *notify.Notifier
	log          *logging.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithUserDir sets the directory user record files are read from and
// written to.
func WithUserDir(dir string) Option {
	return func(s *Store) {
		s.userDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		s.log = l.WithComponent("settings")
	}
}

// New creates a Store with the given options.
func New(opts ...Option) *Store {
	s := &Store{
		contributors: make(map[string]*contributor),
		transforms:   make(map[string]TransformFunc),
		records:      make(map[string]*record),
		notifier:     notify.New(),
		log:          logging.Default().WithComponent("settings"),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.userDir == "" {
		s.userDir = defaultUserDir()
	}

	return s
}

// UserDir returns the user record directory.
func (s *Store) UserDir() string {
	return s.userDir
}

// Register adds a contributor and its raw JSON manifest. A nil manifest is
// treated as empty.
func (s *Store) Register(id string, manifest []byte) error {
	if id == "" {
		return fmt.Errorf("register contributor: empty id")
	}
	if manifest != nil && !gjson.ValidBytes(manifest) {
		return fmt.Errorf("register contributor %q: %w", id, ErrInvalidManifest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contributors[id]; exists {
		return fmt.Errorf("register contributor %q: %w", id, ErrAlreadyRegistered)
	}
	s.contributors[id] = &contributor{id: id, manifest: manifest}
	s.order = append(s.order, id)
	return nil
}

// Contributors returns contributor ids in registration order.
func (s *Store) Contributors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Manifest returns the raw manifest registered for a contributor id.
func (s *Store) Manifest(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contributors[id]
	if !ok {
		return nil, false
	}
	return c.manifest, true
}

// Transform registers the effective-defaults transform for a record. If the
// record is already resolved it is re-resolved and a reload notification is
// fired. The transform runs outside the store lock, so it may call back
// into the store (Contributors, Manifest).
func (s *Store) Transform(id string, fn TransformFunc) error {
	s.mu.Lock()
	if _, ok := s.contributors[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("settings record %q: %w", id, ErrNotRegistered)
	}
	s.transforms[id] = fn
	_, cached := s.records[id]
	s.mu.Unlock()

	if !cached {
		return nil
	}
	if err := s.refresh(id); err != nil {
		return err
	}
	s.notifier.NotifyReload(id, "transform")
	return nil
}

// Load resolves the settings record for a contributor id and returns its
// live handle. A missing user file leaves defaults only; a malformed user
// file fails with a *ParseError. Loading an unregistered id fails with
// ErrNotRegistered.
func (s *Store) Load(ctx context.Context, id string) (*Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	if rec, ok := s.records[id]; ok {
		s.mu.RUnlock()
		return rec.handle, nil
	}
	s.mu.RUnlock()

	defaults, user, composite, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[id]; ok {
		// A concurrent load won the race; its resolution is equivalent.
		return rec.handle, nil
	}
	rec := &record{
		defaults:  defaults,
		user:      user,
		composite: composite,
		handle:    &Settings{store: s, id: id},
	}
	s.records[id] = rec
	return rec.handle, nil
}

// Set updates one path in a record's user file and persists it. JSON records
// are edited in place (unrelated keys survive untouched); TOML records are
// re-marshaled. A record with no user file yet gets a fresh `<id>.json`.
// Fires a set notification after the cached record is refreshed.
func (s *Store) Set(id, path string, value any) error {
	s.mu.RLock()
	_, registered := s.contributors[id]
	var old any
	if rec, ok := s.records[id]; ok {
		old, _ = getPath(rec.composite, path)
	}
	s.mu.RUnlock()

	if !registered {
		return fmt.Errorf("settings record %q: %w", id, ErrNotRegistered)
	}

	filePath, codec := s.userRecordFile(id)
	data, err := os.ReadFile(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading user record %s: %w", filePath, err)
	}

	updated, err := codec.Set(data, path, value)
	if err != nil {
		return fmt.Errorf("settings record %q: %w", id, err)
	}

	if err := os.MkdirAll(s.userDir, 0o755); err != nil {
		return fmt.Errorf("creating user dir %s: %w", s.userDir, err)
	}
	if err := os.WriteFile(filePath, updated, 0o644); err != nil {
		return fmt.Errorf("writing user record %s: %w", filePath, err)
	}

	if err := s.refresh(id); err != nil {
		return err
	}

	s.notifier.NotifySet(id, path, old, value, "set")
	return nil
}

// Invalidate re-resolves a record from its sources and fires a reload
// notification. Unregistered or not-yet-loaded records are ignored. When
// re-resolution fails (user file now malformed) the previous state is kept
// and no notification fires; the failure is logged.
func (s *Store) Invalidate(id string) {
	s.mu.RLock()
	_, registered := s.contributors[id]
	_, cached := s.records[id]
	s.mu.RUnlock()

	if !registered || !cached {
		return
	}

	if err := s.refresh(id); err != nil {
		s.log.Warn("reloading settings record %q failed: %v", id, err)
		return
	}
	s.notifier.NotifyReload(id, "reload")
}

// InvalidatePath maps a changed user-record file path to its record id and
// invalidates it. Paths that are not record files are ignored.
func (s *Store) InvalidatePath(path string) {
	ext := filepath.Ext(path)
	if _, ok := loader.ForExt(ext); !ok {
		return
	}
	id := strings.TrimSuffix(filepath.Base(path), ext)
	s.Invalidate(id)
}

// Changed registers an observer for changes to every record.
func (s *Store) Changed(obs notify.Observer) *notify.Subscription {
	return s.notifier.Subscribe(obs)
}

// resolve computes a record's state from its sources. It holds no lock
// while reading files or running the transform, so transforms may call back
// into the store.
func (s *Store) resolve(id string) (defaults, user, composite map[string]any, err error) {
	s.mu.RLock()
	c, ok := s.contributors[id]
	if !ok {
		s.mu.RUnlock()
		return nil, nil, nil, fmt.Errorf("settings record %q: %w", id, ErrNotRegistered)
	}
	manifest := c.manifest
	transform := s.transforms[id]
	s.mu.RUnlock()

	defaults = manifestDefaults(manifest)
	if transform != nil {
		defaults = transform(defaults)
		if defaults == nil {
			defaults = make(map[string]any)
		}
	}

	user, err = s.readUserRecord(id)
	if err != nil {
		return nil, nil, nil, err
	}

	composite = loader.DeepMerge(loader.Clone(defaults), loader.Clone(user))
	return defaults, user, composite, nil
}

// refresh re-resolves a record and swaps the cached state.
func (s *Store) refresh(id string) error {
	defaults, user, composite, err := s.resolve(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		rec = &record{handle: &Settings{store: s, id: id}}
		s.records[id] = rec
	}
	rec.defaults = defaults
	rec.user = user
	rec.composite = composite
	return nil
}

// readUserRecord loads the user override file for a record, trying each
// codec extension. Missing file is not an error.
func (s *Store) readUserRecord(id string) (map[string]any, error) {
	for _, codec := range loader.Codecs() {
		for _, ext := range codec.Extensions() {
			path := filepath.Join(s.userDir, id+ext)
			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return nil, fmt.Errorf("reading user record %s: %w", path, err)
			}
			return codec.Load(path, data)
		}
	}
	return nil, nil
}

// userRecordFile picks the file and codec Set writes through: the existing
// record file if one is present, otherwise a fresh JSON record.
func (s *Store) userRecordFile(id string) (string, loader.Codec) {
	for _, codec := range loader.Codecs() {
		for _, ext := range codec.Extensions() {
			path := filepath.Join(s.userDir, id+ext)
			if _, err := os.Stat(path); err == nil {
				return path, codec
			}
		}
	}
	return filepath.Join(s.userDir, id+".json"), loader.JSON{}
}

// manifestDefaults extracts the manifest's "defaults" object.
func manifestDefaults(manifest []byte) map[string]any {
	if len(manifest) == 0 {
		return make(map[string]any)
	}
	result := gjson.GetBytes(manifest, "defaults")
	if !result.IsObject() {
		return make(map[string]any)
	}
	m, ok := result.Value().(map[string]any)
	if !ok {
		return make(map[string]any)
	}
	return m
}

// getPath returns the value at a dot-separated path in a nested map.
func getPath(m map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	current := any(m)
	for _, part := range strings.Split(path, ".") {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// defaultUserDir returns the default user record directory.
func defaultUserDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return ".keyloom"
		}
		return filepath.Join(home, ".keyloom")
	}
	return filepath.Join(base, "keyloom")
}
