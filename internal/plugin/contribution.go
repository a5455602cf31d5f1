// Package plugin loads shortcut contributions from Lua scripts.
//
// Each script runs in a sandboxed Lua state that exposes a single
// keyloom.contribute(tbl) function. The script declares an id and a list of
// shortcut rules; the loader converts the declaration into a settings
// manifest so scripted contributions flow through the same aggregation path
// as native ones. A failing script is reported and skipped, it never aborts
// the other scripts in the directory.
package plugin

import "errors"

// ErrNoContribution is returned when a script runs to completion without
// calling keyloom.contribute.
var ErrNoContribution = errors.New("script made no contribution")

// Contribution is the settings manifest produced by one plugin script.
type Contribution struct {
	// ID is the contributor id the script declared. It becomes the
	// settings record id the manifest is registered under.
	ID string

	// Path is the script file the contribution came from.
	Path string

	// Manifest is the JSON manifest holding the declared shortcut rules.
	Manifest []byte
}
