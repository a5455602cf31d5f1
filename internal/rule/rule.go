// Package rule defines the declarative key-binding rule model shared by the
// reconciler, the installer, and the dispatch registry.
package rule

// Rule represents a single declarative key-binding: a chord sequence bound to
// a command within an activation scope.
type Rule struct {
	// Command is the opaque identifier of the action to invoke.
	// Examples: "editor.save", "palette.toggle".
	Command string

	// Keys is the ordered chord sequence that triggers the command. Each
	// element is one physical chord; a multi-element sequence requires the
	// chords to be pressed in order. An empty sequence is invalid.
	Keys []string

	// Selector identifies the activation scope. It is opaque to the
	// reconciler; the dispatch registry matches it against the active
	// scope chain.
	Selector string

	// Args is an optional payload passed to the command on activation.
	Args map[string]any

	// Disabled marks a chord+selector combination as explicitly
	// suppressed. Only meaningful on user rules: a disabled rule removes
	// the matching default without binding anything in its place.
	Disabled bool
}

// New creates a rule binding keys to command within selector.
func New(command, selector string, keys ...string) Rule {
	return Rule{
		Command:  command,
		Keys:     keys,
		Selector: selector,
	}
}

// WithArgs sets the activation payload.
func (r Rule) WithArgs(args map[string]any) Rule {
	r.Args = args
	return r
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	c := r
	c.Keys = make([]string, len(r.Keys))
	copy(c.Keys, r.Keys)
	if r.Args != nil {
		c.Args = make(map[string]any, len(r.Args))
		for k, v := range r.Args {
			c.Args[k] = v
		}
	}
	return c
}

// Validate checks the rule's structure: a command, at least one chord, and a
// selector are required. It reports the first problem found.
func (r Rule) Validate() error {
	if r.Command == "" {
		return ErrNoCommand
	}
	if len(r.Keys) == 0 {
		return ErrNoKeys
	}
	if r.Selector == "" {
		return ErrNoSelector
	}
	return nil
}

// Map converts the rule to its generic map form, the shape rules take inside
// settings records and contributor manifests. Zero-valued optional fields are
// omitted.
func (r Rule) Map() map[string]any {
	m := map[string]any{
		"command":  r.Command,
		"keys":     append([]string(nil), r.Keys...),
		"selector": r.Selector,
	}
	if len(r.Args) > 0 {
		args := make(map[string]any, len(r.Args))
		for k, v := range r.Args {
			args[k] = v
		}
		m["args"] = args
	}
	if r.Disabled {
		m["disabled"] = true
	}
	return m
}
