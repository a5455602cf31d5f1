// Package install projects a merged rule list into live dispatch
// registrations.
//
// The Installer owns the currently installed registration handles as one
// disposable Group. Every install is a full swap: the previous group is
// released in full before the first new registration is made, so no stale or
// duplicate registration survives a change.
package install

import (
	"sync"

	"keyloom/internal/logging"
	"keyloom/internal/rule"
)

// Handle is one revocable dispatch registration.
type Handle interface {
	Dispose()
}

// Binder is the dispatch-registry boundary rules are registered through.
type Binder interface {
	AddBinding(command string, keys []string, selector string, args map[string]any) (Handle, error)
}

// Option configures an Installer.
type Option func(*Installer)

// WithLogger sets the logger used for skipped rules and binder failures.
func WithLogger(l *logging.Logger) Option {
	return func(ins *Installer) {
		ins.log = l.WithComponent("install")
	}
}

// Installer converts merged rule lists into dispatch registrations and owns
// the currently installed group.
type Installer struct {
	mu     sync.Mutex
	binder Binder
	group  *Group
	log    *logging.Logger
}

// New creates an Installer that registers rules through binder.
func New(binder Binder, opts ...Option) *Installer {
	ins := &Installer{
		binder: binder,
		log:    logging.Default().WithComponent("install"),
	}
	for _, opt := range opts {
		opt(ins)
	}
	return ins
}

// Install replaces the currently installed group with registrations for
// rules. The previous group is released in full before the first new
// registration is made. Structurally invalid rules are skipped silently;
// binder failures are logged and skipped. The new group is retained by the
// Installer and returned.
func (ins *Installer) Install(rules []rule.Rule) *Group {
	ins.mu.Lock()
	defer ins.mu.Unlock()

	if ins.group != nil {
		ins.group.Dispose()
		ins.group = nil
	}

	handles := make([]Handle, 0, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			ins.log.Debug("skipping malformed rule %s: %v", r.Slot(), err)
			continue
		}
		h, err := ins.binder.AddBinding(r.Command, r.Keys, r.Selector, r.Args)
		if err != nil {
			ins.log.Warn("binding %q at %s failed: %v", r.Command, r.Slot(), err)
			continue
		}
		handles = append(handles, h)
	}

	ins.group = newGroup(handles)
	return ins.group
}

// Current returns the installed group, or nil before the first install.
func (ins *Installer) Current() *Group {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	return ins.group
}

// Close releases the installed group.
func (ins *Installer) Close() {
	ins.mu.Lock()
	defer ins.mu.Unlock()

	if ins.group != nil {
		ins.group.Dispose()
		ins.group = nil
	}
}
