package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"keyloom/internal/chord"
	"keyloom/internal/dispatch"
	"keyloom/internal/shortcuts"
)

// runTry opens a full-screen prompt that resolves live key presses against
// the installed binding table. Escape twice quits; so does any binding whose
// command asks to quit.
func runTry(reg *dispatch.Registry, m *shortcuts.Manager, scopes []string) int {
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	ui := &tryUI{screen: screen, reg: reg, manager: m, scopes: scopes}
	ui.run()
	return 0
}

type tryUI struct {
	screen  tcell.Screen
	reg     *dispatch.Registry
	manager *shortcuts.Manager
	scopes  []string

	seq     chord.Sequence
	status  string
	history []string
	escapes int
}

func (t *tryUI) run() {
	t.status = "press keys to match bindings, Escape twice to quit"
	t.draw()
	for {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventResize:
			t.screen.Sync()
			t.draw()
		case *tcell.EventKey:
			if t.handleKey(ev) {
				return
			}
			t.draw()
		}
	}
}

// handleKey folds one key press into the pending sequence and resolves it.
// It returns true when the session should end.
func (t *tryUI) handleKey(ev *tcell.EventKey) bool {
	c, ok := convertKey(ev)
	if !ok {
		return false
	}

	if c.Key == chord.KeyEscape && c.Mods == chord.ModNone {
		t.escapes++
		if t.escapes >= 2 {
			return true
		}
		t.seq = nil
		t.status = "press Escape again to quit"
		return false
	}
	t.escapes = 0

	t.seq = append(t.seq, c)
	match := t.reg.Match(t.seq, t.scopes)
	switch match.Kind {
	case dispatch.MatchExact:
		b := match.Binding
		err := t.reg.Dispatch(context.Background(), b.Command(), b.Args())
		switch {
		case errors.Is(err, errQuit):
			return true
		case errors.Is(err, dispatch.ErrUnknownCommand):
			t.record("%s -> %s (unknown command)", t.seq, b.Command())
		case err != nil:
			t.record("%s -> %s: %v", t.seq, b.Command(), err)
		default:
			t.record("%s -> %s", t.seq, b.Command())
		}
		t.seq = nil
		t.status = ""
	case dispatch.MatchPrefix:
		t.status = fmt.Sprintf("pending: %s ...", t.seq)
	case dispatch.MatchNone:
		t.record("%s (no match)", t.seq)
		t.seq = nil
		t.status = ""
	}
	return false
}

func (t *tryUI) record(format string, args ...any) {
	t.history = append(t.history, fmt.Sprintf(format, args...))
	if len(t.history) > 8 {
		t.history = t.history[len(t.history)-8:]
	}
}

func (t *tryUI) draw() {
	t.screen.Clear()
	_, height := t.screen.Size()

	row := 0
	t.drawLine(row, height, "keyloom try mode (scopes: "+strings.Join(t.scopes, " > ")+")")
	row += 2
	for _, r := range t.manager.Rules() {
		t.drawLine(row, height, fmt.Sprintf("  %-24s %s", strings.Join(r.Keys, " "), r.Command))
		row++
	}
	row++
	for _, line := range t.history {
		t.drawLine(row, height, "  "+line)
		row++
	}
	row++
	if t.status != "" {
		t.drawLine(row, height, t.status)
	}
	t.screen.Show()
}

func (t *tryUI) drawLine(row, height int, text string) {
	if row < 0 || row >= height {
		return
	}
	col := 0
	for _, r := range text {
		t.screen.SetContent(col, row, r, nil, tcell.StyleDefault)
		col++
	}
}

// convertKey maps a tcell key event onto a chord. Ctrl-letter presses arrive
// from tcell as control characters rather than runes, so they are rebuilt as
// ctrl-modified letter chords. tcell aliases Enter, Tab and Backspace into
// that same control range; those stay named keys.
func convertKey(ev *tcell.EventKey) (chord.Chord, bool) {
	mods := convertMod(ev.Modifiers())
	k := ev.Key()

	if k == tcell.KeyRune {
		r := ev.Rune()
		if unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
		}
		return chord.Chord{Key: chord.KeyRune, Rune: r, Mods: mods}, true
	}

	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		switch k {
		case tcell.KeyEnter, tcell.KeyTab, tcell.KeyBackspace:
		default:
			r := rune('A' + int(k) - int(tcell.KeyCtrlA))
			return chord.Chord{Key: chord.KeyRune, Rune: r, Mods: mods.With(chord.ModCtrl)}, true
		}
	}

	switch k {
	case tcell.KeyCtrlSpace:
		return chord.Chord{Key: chord.KeyRune, Rune: ' ', Mods: mods.With(chord.ModCtrl)}, true
	case tcell.KeyEscape:
		return chord.Chord{Key: chord.KeyEscape, Mods: mods}, true
	case tcell.KeyEnter:
		return chord.Chord{Key: chord.KeyEnter, Mods: mods}, true
	case tcell.KeyTab:
		return chord.Chord{Key: chord.KeyTab, Mods: mods}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return chord.Chord{Key: chord.KeyBackspace, Mods: mods}, true
	case tcell.KeyDelete:
		return chord.Chord{Key: chord.KeyDelete, Mods: mods}, true
	case tcell.KeyInsert:
		return chord.Chord{Key: chord.KeyInsert, Mods: mods}, true
	case tcell.KeyHome:
		return chord.Chord{Key: chord.KeyHome, Mods: mods}, true
	case tcell.KeyEnd:
		return chord.Chord{Key: chord.KeyEnd, Mods: mods}, true
	case tcell.KeyPgUp:
		return chord.Chord{Key: chord.KeyPageUp, Mods: mods}, true
	case tcell.KeyPgDn:
		return chord.Chord{Key: chord.KeyPageDown, Mods: mods}, true
	case tcell.KeyUp:
		return chord.Chord{Key: chord.KeyUp, Mods: mods}, true
	case tcell.KeyDown:
		return chord.Chord{Key: chord.KeyDown, Mods: mods}, true
	case tcell.KeyLeft:
		return chord.Chord{Key: chord.KeyLeft, Mods: mods}, true
	case tcell.KeyRight:
		return chord.Chord{Key: chord.KeyRight, Mods: mods}, true
	case tcell.KeyF1:
		return chord.Chord{Key: chord.KeyF1, Mods: mods}, true
	case tcell.KeyF2:
		return chord.Chord{Key: chord.KeyF2, Mods: mods}, true
	case tcell.KeyF3:
		return chord.Chord{Key: chord.KeyF3, Mods: mods}, true
	case tcell.KeyF4:
		return chord.Chord{Key: chord.KeyF4, Mods: mods}, true
	case tcell.KeyF5:
		return chord.Chord{Key: chord.KeyF5, Mods: mods}, true
	case tcell.KeyF6:
		return chord.Chord{Key: chord.KeyF6, Mods: mods}, true
	case tcell.KeyF7:
		return chord.Chord{Key: chord.KeyF7, Mods: mods}, true
	case tcell.KeyF8:
		return chord.Chord{Key: chord.KeyF8, Mods: mods}, true
	case tcell.KeyF9:
		return chord.Chord{Key: chord.KeyF9, Mods: mods}, true
	case tcell.KeyF10:
		return chord.Chord{Key: chord.KeyF10, Mods: mods}, true
	case tcell.KeyF11:
		return chord.Chord{Key: chord.KeyF11, Mods: mods}, true
	case tcell.KeyF12:
		return chord.Chord{Key: chord.KeyF12, Mods: mods}, true
	}

	return chord.Chord{}, false
}

// convertMod converts a tcell modifier mask to chord modifiers.
func convertMod(m tcell.ModMask) chord.Modifier {
	var mods chord.Modifier
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(chord.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(chord.ModAlt)
	}
	if m&tcell.ModShift != 0 {
		mods = mods.With(chord.ModShift)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(chord.ModMeta)
	}
	return mods
}
