package rule

import (
	"strconv"
	"strings"
)

// Slot is the collision key of a rule: the (key sequence, selector) pair that
// uniquely identifies a binding position. Two rules collide iff their slots
// are equal. Slot is comparable and safe to use as a map key.
//
// The sequence component is a length-prefixed encoding of the chord strings,
// not a plain join: a chord that happens to contain a separator character
// (such as "Ctrl A" written with a space) must never collide with the
// two-chord sequence ["Ctrl", "A"].
type Slot struct {
	keys     string
	selector string
}

// NewSlot builds the collision key for a chord sequence within a selector.
func NewSlot(keys []string, selector string) Slot {
	return Slot{keys: canonicalKeys(keys), selector: selector}
}

// Slot returns the rule's collision key.
func (r Rule) Slot() Slot {
	return NewSlot(r.Keys, r.Selector)
}

// Selector returns the selector component of the slot.
func (s Slot) Selector() string {
	return s.selector
}

// String renders the slot for diagnostics, e.g. `["Ctrl A"] @ body`.
func (s Slot) String() string {
	var b strings.Builder
	b.WriteByte('[')
	rest := s.keys
	for i := 0; rest != ""; i++ {
		sep := strings.IndexByte(rest, ':')
		n, _ := strconv.Atoi(rest[:sep])
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Quote(rest[sep+1 : sep+1+n]))
		rest = rest[sep+1+n:]
	}
	b.WriteString("] @ ")
	b.WriteString(s.selector)
	return b.String()
}

// canonicalKeys encodes a chord sequence unambiguously: each chord is
// prefixed by its byte length, so element boundaries survive any chord
// content.
func canonicalKeys(keys []string) string {
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(strconv.Itoa(len(k)))
		b.WriteByte(':')
		b.WriteString(k)
	}
	return b.String()
}
