// Package notify provides change notification for settings records.
//
// Components subscribe to one record or to all records and receive a
// callback whenever a record's resolved values change.
package notify

import "sync"

// ChangeType represents the type of settings change.
type ChangeType int

const (
	// ChangeSet indicates a single value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeReload indicates the record was re-resolved from its sources.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a settings change event.
type Change struct {
	// Record is the id of the settings record the change belongs to.
	Record string

	// Path is the dot-separated path to the changed value.
	// Empty for reload events.
	Path string

	// Type is the type of change.
	Type ChangeType

	// Old is the previous value (may be nil).
	Old any

	// New is the new value (nil for reloads).
	New any

	// Source identifies where the change came from.
	Source string
}

// Observer is called when settings changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages settings change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	// Global observers that receive all changes
	global map[uint64]Observer

	// Per-record observers
	records map[string]map[uint64]Observer

	// Next subscription ID
	nextID uint64
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{
		global:  make(map[uint64]Observer),
		records: make(map[string]map[uint64]Observer),
	}
}

// Subscribe registers an observer for changes to every record.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.global[id] = observer

	return &Subscription{id: id, notifier: n}
}

// SubscribeRecord registers an observer for changes to one record.
func (n *Notifier) SubscribeRecord(record string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	if n.records[record] == nil {
		n.records[record] = make(map[uint64]Observer)
	}
	n.records[record][id] = observer

	return &Subscription{id: id, notifier: n}
}

// Notify sends a change to all matching observers. Observers run on the
// calling goroutine, outside the notifier lock. Record observers run before
// global observers, so a record's owner sees the change before components
// watching the whole store do.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()

	var observers []Observer
	for _, obs := range n.records[change.Record] {
		observers = append(observers, obs)
	}
	for _, obs := range n.global {
		observers = append(observers, obs)
	}

	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

// NotifySet is a convenience method for set changes.
func (n *Notifier) NotifySet(record, path string, old, new any, source string) {
	n.Notify(Change{
		Record: record,
		Path:   path,
		Type:   ChangeSet,
		Old:    old,
		New:    new,
		Source: source,
	})
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(record, source string) {
	n.Notify(Change{
		Record: record,
		Type:   ChangeReload,
		Source: source,
	})
}

// unsubscribe removes an observer by ID.
func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.global, id)

	for record, observers := range n.records {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.records, record)
		}
	}
}
