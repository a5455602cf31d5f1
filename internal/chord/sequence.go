package chord

import "strings"

// Sequence is an ordered series of chords forming one binding trigger,
// e.g. [Ctrl-K, Ctrl-0].
type Sequence []Chord

// ParseSequence parses a whitespace-separated list of chord specs into a
// sequence: "Ctrl-K Ctrl-0" is two chords. Note that this differs from the
// single-chord spellings accepted by Parse, where "Ctrl A" is one chord;
// rule key lists carry one chord spec per element, each parsed with Parse.
func ParseSequence(spec string) (Sequence, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, ErrEmptyChord
	}

	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		seq = append(seq, c)
	}
	return seq, nil
}

// ParseKeys parses a rule's key list, one chord spec per element.
func ParseKeys(keys []string) (Sequence, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyChord
	}

	seq := make(Sequence, 0, len(keys))
	for _, k := range keys {
		c, err := Parse(k)
		if err != nil {
			return nil, err
		}
		seq = append(seq, c)
	}
	return seq, nil
}

// MustParseSequence parses a sequence spec and panics on error. Use only for
// known-valid specs in initialization code.
func MustParseSequence(spec string) Sequence {
	seq, err := ParseSequence(spec)
	if err != nil {
		panic("invalid chord sequence: " + spec + ": " + err.Error())
	}
	return seq
}

// String renders the sequence canonically, chords joined by spaces.
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Equal reports whether two sequences contain the same chords in order.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i, c := range s {
		if c != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether s begins with prefix. An empty prefix matches
// every sequence.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i, c := range prefix {
		if s[i] != c {
			return false
		}
	}
	return true
}

// Clone returns a copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	c := make(Sequence, len(s))
	copy(c, s)
	return c
}
