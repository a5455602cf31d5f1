// Package dispatch implements the live command and key-binding registry that
// merged rules are installed into.
//
// The registry has two halves: named command handlers (RegisterCommand,
// Dispatch) and a scoped binding table (AddBinding, Match). Bindings may
// reference commands with no registered handler yet; dispatching such a
// command fails with ErrUnknownCommand. Specificity between overlapping
// selectors is resolved at match time by the caller-supplied scope chain,
// most specific scope first.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Handler executes a command with the arguments carried by the binding that
// triggered it (or supplied directly by the dispatching caller).
type Handler func(ctx context.Context, args map[string]any) error

// Registry manages command handlers and scoped key bindings.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Handler
	bindings []*Binding // registration order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Handler),
	}
}

// RegisterCommand adds a handler for a command name.
func (r *Registry) RegisterCommand(name string, h Handler) error {
	if name == "" {
		return fmt.Errorf("register command: empty name")
	}
	if h == nil {
		return fmt.Errorf("register command %q: %w", name, ErrNilHandler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("register command %q: %w", name, ErrDuplicateCommand)
	}
	r.commands[name] = h
	return nil
}

// UnregisterCommand removes the handler for a command name.
func (r *Registry) UnregisterCommand(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, name)
}

// HasCommand reports whether a handler is registered for the name.
func (r *Registry) HasCommand(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.commands[name]
	return ok
}

// Commands returns all registered command names, sorted.
func (r *Registry) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch executes the handler registered for command. The handler runs on
// the calling goroutine, outside the registry lock.
func (r *Registry) Dispatch(ctx context.Context, command string, args map[string]any) error {
	r.mu.RLock()
	h, ok := r.commands[command]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("dispatch %q: %w", command, ErrUnknownCommand)
	}
	return h(ctx, args)
}
