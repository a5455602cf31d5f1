package dispatch

import (
	"fmt"

	"github.com/google/uuid"

	"keyloom/internal/chord"
)

// Binding is one installed chord-sequence registration. Bindings are created
// by Registry.AddBinding and revoked with Dispose; all other state is fixed
// at creation.
type Binding struct {
	id       uuid.UUID
	command  string
	keys     []string
	selector string
	args     map[string]any
	seq      chord.Sequence
	reg      *Registry
}

// AddBinding registers a chord-sequence binding scoped by selector and
// returns its disposable handle. Each keys element holds one chord
// specification. The command does not need a registered handler yet;
// dispatching it before one exists fails with ErrUnknownCommand.
func (r *Registry) AddBinding(command string, keys []string, selector string, args map[string]any) (*Binding, error) {
	if command == "" {
		return nil, fmt.Errorf("%w: missing command", ErrInvalidBinding)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: missing keys", ErrInvalidBinding)
	}
	if selector == "" {
		return nil, fmt.Errorf("%w: missing selector", ErrInvalidBinding)
	}

	seq, err := chord.ParseKeys(keys)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBinding, err)
	}

	b := &Binding{
		id:       uuid.New(),
		command:  command,
		keys:     append([]string(nil), keys...),
		selector: selector,
		seq:      seq,
		reg:      r,
	}
	if len(args) > 0 {
		b.args = make(map[string]any, len(args))
		for k, v := range args {
			b.args[k] = v
		}
	}

	r.mu.Lock()
	r.bindings = append(r.bindings, b)
	r.mu.Unlock()

	return b, nil
}

// Dispose revokes the binding. Safe to call more than once.
func (b *Binding) Dispose() {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()

	for i, existing := range b.reg.bindings {
		if existing == b {
			b.reg.bindings = append(b.reg.bindings[:i], b.reg.bindings[i+1:]...)
			return
		}
	}
}

// ID returns the registration identifier.
func (b *Binding) ID() uuid.UUID { return b.id }

// Command returns the bound command name.
func (b *Binding) Command() string { return b.command }

// Keys returns the raw chord specifications as registered.
func (b *Binding) Keys() []string {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Selector returns the activation scope selector.
func (b *Binding) Selector() string { return b.selector }

// Sequence returns the parsed chord sequence.
func (b *Binding) Sequence() chord.Sequence { return b.seq.Clone() }

// Args returns the arguments passed to the command on activation. May be nil.
func (b *Binding) Args() map[string]any {
	if b.args == nil {
		return nil
	}
	args := make(map[string]any, len(b.args))
	for k, v := range b.args {
		args[k] = v
	}
	return args
}

// Bindings returns a snapshot of the live bindings in registration order.
func (r *Registry) Bindings() []*Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Binding, len(r.bindings))
	copy(result, r.bindings)
	return result
}

// BindingCount returns the number of live bindings.
func (r *Registry) BindingCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}
