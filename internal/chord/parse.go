package chord

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptyChord   = errors.New("empty chord")
	ErrInvalidChord = errors.New("invalid chord")
)

// Parse parses one chord specification.
//
// Accepted spellings:
//   - space-separated: "Ctrl A", "Accel Shift P", "Shift Enter"
//   - plus-separated:  "Ctrl+A", "Ctrl+Shift+P"
//   - hyphen-separated: "Ctrl-A", "C-s"
//   - bare key: "a", "%", "Enter", "F5", "Space"
//
// Letter keys canonicalize to upper case; "accel" is an alias for Ctrl.
func Parse(spec string) (Chord, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return Chord{}, ErrEmptyChord
	}

	if fields := strings.Fields(trimmed); len(fields) > 1 {
		return parseParts(fields)
	}

	if strings.ContainsRune(trimmed, '+') && utf8.RuneCountInString(trimmed) > 1 {
		return parseParts(strings.Split(trimmed, "+"))
	}
	if strings.ContainsRune(trimmed, '-') && utf8.RuneCountInString(trimmed) > 1 {
		return parseParts(strings.Split(trimmed, "-"))
	}

	return parseKeyToken(trimmed, ModNone)
}

// MustParse parses a chord specification and panics on error. Use only for
// known-valid specs in initialization code.
func MustParse(spec string) Chord {
	c, err := Parse(spec)
	if err != nil {
		panic("invalid chord: " + spec + ": " + err.Error())
	}
	return c
}

// parseParts resolves a pre-split spec: every part but the last must be a
// modifier name, the last is the key.
func parseParts(parts []string) (Chord, error) {
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		m := ModifierFromName(p)
		if m == ModNone {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidChord, p)
		}
		mods = mods.With(m)
	}
	return parseKeyToken(strings.TrimSpace(parts[len(parts)-1]), mods)
}

func parseKeyToken(token string, mods Modifier) (Chord, error) {
	if token == "" {
		return Chord{}, fmt.Errorf("%w: missing key", ErrInvalidChord)
	}

	if strings.EqualFold(token, "space") {
		return Chord{Key: KeyRune, Rune: ' ', Mods: mods}, nil
	}
	if k := KeyFromName(token); k != KeyNone {
		return Chord{Key: k, Mods: mods}, nil
	}

	runes := []rune(token)
	if len(runes) != 1 {
		return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidChord, token)
	}

	r := runes[0]
	if unicode.IsLetter(r) {
		r = unicode.ToUpper(r)
	}
	return Chord{Key: KeyRune, Rune: r, Mods: mods}, nil
}
