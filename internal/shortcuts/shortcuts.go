// Package shortcuts wires the settings store, the reconciler, and the
// installer into the live shortcut feature.
//
// Contributors declare default shortcut rules under the well-known
// ExtensionKey in their settings manifests. The Manager aggregates those
// declarations into the shortcuts record's effective defaults, merges them
// with the user's overrides, and installs the merged table into the
// dispatch registry. Every change to the record triggers a full
// teardown/rebuild of the installed bindings.
package shortcuts

import "errors"

const (
	// SettingsID is the id of the shortcuts settings record.
	SettingsID = "shortcuts"

	// ExtensionKey is the manifest key under which contributors declare
	// default shortcut rules.
	ExtensionKey = "keyloom.shortcuts"
)

// ErrNotStarted is returned by write operations before Start has succeeded
// or after Close.
var ErrNotStarted = errors.New("shortcuts manager not started")

// recordManifest declares the shortcuts record itself. Its defaults are
// rebuilt from contributor manifests by the transform on every resolve.
var recordManifest = []byte(`{"defaults": {"shortcuts": []}}`)
