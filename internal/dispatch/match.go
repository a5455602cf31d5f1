package dispatch

import "keyloom/internal/chord"

// MatchKind classifies the result of resolving an input sequence.
type MatchKind int

const (
	// MatchNone means no binding in the scope chain matches or extends the
	// sequence.
	MatchNone MatchKind = iota
	// MatchPrefix means at least one binding starts with the sequence but
	// expects more chords.
	MatchPrefix
	// MatchExact means a binding matches the sequence completely.
	MatchExact
)

// String returns a human-readable kind name.
func (k MatchKind) String() string {
	switch k {
	case MatchNone:
		return "none"
	case MatchPrefix:
		return "prefix"
	case MatchExact:
		return "exact"
	default:
		return "unknown"
	}
}

// Match is the result of Registry.Match. Binding is set only for MatchExact.
type Match struct {
	Kind    MatchKind
	Binding *Binding
}

// Match resolves a pressed chord sequence against the binding table for an
// ordered scope chain, most specific scope first. The first scope containing
// an exact match wins; bindings whose selector is not in the chain never
// participate. When no exact match exists but some in-chain binding extends
// the sequence, the result is MatchPrefix (more chords expected).
func (r *Registry) Match(seq chord.Sequence, scopes []string) Match {
	if len(seq) == 0 || len(scopes) == 0 {
		return Match{Kind: MatchNone}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, scope := range scopes {
		for _, b := range r.bindings {
			if b.selector != scope {
				continue
			}
			if b.seq.Equal(seq) {
				return Match{Kind: MatchExact, Binding: b}
			}
		}
	}

	for _, scope := range scopes {
		for _, b := range r.bindings {
			if b.selector != scope {
				continue
			}
			if len(b.seq) > len(seq) && b.seq.HasPrefix(seq) {
				return Match{Kind: MatchPrefix}
			}
		}
	}

	return Match{Kind: MatchNone}
}
