// Package chord models physical key chords and chord sequences.
//
// A chord is one key press with optional modifiers, written in specs as
// "Ctrl A", "Ctrl+A", or "Ctrl-A" (all equivalent). Letter keys are
// case-insensitive and canonicalize to upper case with Shift kept as an
// explicit modifier, so "ctrl shift p" and "Ctrl-Shift-P" describe the same
// chord. The reconciler never parses chords (rules collide on their raw
// strings); the dispatch registry and the interactive host match live input
// through this package's canonical forms.
package chord

import "strings"

// Chord is a single key press with modifiers. The zero value is no chord.
// Chord is comparable; two chords are the same press iff they are ==.
type Chord struct {
	// Key identifies a special (non-character) key, or KeyRune for
	// character keys.
	Key Key

	// Rune is the character for KeyRune chords, upper case for letters.
	Rune rune

	// Mods holds the modifier set.
	Mods Modifier
}

// String returns the canonical spelling, e.g. "Ctrl-Shift-P", "Alt-Enter",
// "F5". It parses back to the same chord.
func (c Chord) String() string {
	var parts []string
	if mods := c.Mods.String(); mods != "" {
		parts = append(parts, mods)
	}

	switch {
	case c.Key == KeyRune && c.Rune == ' ':
		parts = append(parts, "Space")
	case c.Key == KeyRune:
		parts = append(parts, string(c.Rune))
	default:
		parts = append(parts, c.Key.String())
	}

	return strings.Join(parts, "-")
}

// IsZero reports whether the chord is unset.
func (c Chord) IsZero() bool {
	return c == Chord{}
}
