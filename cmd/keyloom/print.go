package main

import (
	"fmt"
	"io"
	"strings"

	"keyloom/internal/shortcuts"
)

// printTable writes the active binding table and any collision
// diagnostics from the last reconcile.
func printTable(w io.Writer, m *shortcuts.Manager) {
	rules := m.Rules()
	collisions := m.Collisions()

	keyW, selW, cmdW := len("KEYS"), len("SELECTOR"), len("COMMAND")
	for _, r := range rules {
		if n := len(strings.Join(r.Keys, " ")); n > keyW {
			keyW = n
		}
		if n := len(r.Selector); n > selW {
			selW = n
		}
		if n := len(r.Command); n > cmdW {
			cmdW = n
		}
	}

	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", keyW, "KEYS", selW, "SELECTOR", cmdW, "COMMAND", "ARGS")
	for _, r := range rules {
		args := ""
		if len(r.Args) > 0 {
			args = fmt.Sprintf("%v", r.Args)
		}
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", keyW, strings.Join(r.Keys, " "), selW, r.Selector, cmdW, r.Command, args)
	}

	fmt.Fprintf(w, "\n%d bindings", len(rules))
	if len(collisions) > 0 {
		fmt.Fprintf(w, ", %d collisions\n", len(collisions))
		for _, c := range collisions {
			fmt.Fprintf(w, "  %s\n", c)
		}
	} else {
		fmt.Fprintln(w)
	}
}
