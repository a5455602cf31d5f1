package main

import (
	"context"
	"errors"

	"keyloom/internal/dispatch"
	"keyloom/internal/logging"
)

// errQuit signals a quit request from a dispatched command.
var errQuit = errors.New("quit requested")

// builtin is one built-in sample contributor.
type builtin struct {
	ID       string
	Manifest []byte
}

// builtinContributors returns the sample contributors the host registers on
// startup. They cover both scopes of the default chain and include a
// two-chord sequence for exercising prefix matching.
func builtinContributors() []builtin {
	return []builtin{
		{
			ID: "app",
			Manifest: []byte(`{
				"defaults": {"confirmQuit": false},
				"keyloom.shortcuts": [
					{"command": "app.quit", "keys": ["ctrl+q"], "selector": "app"},
					{"command": "app.help", "keys": ["f1"], "selector": "app"},
					{"command": "palette.open", "keys": ["ctrl+shift+p"], "selector": "app"}
				]
			}`),
		},
		{
			ID: "editor",
			Manifest: []byte(`{
				"defaults": {"tabSize": 4},
				"keyloom.shortcuts": [
					{"command": "editor.save", "keys": ["ctrl+s"], "selector": "editor"},
					{"command": "editor.saveAll", "keys": ["ctrl+k", "ctrl+s"], "selector": "editor"},
					{"command": "editor.find", "keys": ["ctrl+f"], "selector": "editor"},
					{"command": "editor.undo", "keys": ["ctrl+z"], "selector": "editor"},
					{"command": "editor.redo", "keys": ["ctrl+shift+z"], "selector": "editor"}
				]
			}`),
		},
	}
}

// registerCommands installs handlers for the sample commands. Handlers log
// their invocation; app.quit returns errQuit so interactive mode can exit
// through the dispatch path.
func registerCommands(reg *dispatch.Registry, log *logging.Logger) error {
	commands := []string{
		"app.help",
		"palette.open",
		"editor.save",
		"editor.saveAll",
		"editor.find",
		"editor.undo",
		"editor.redo",
	}
	for _, name := range commands {
		err := reg.RegisterCommand(name, func(ctx context.Context, args map[string]any) error {
			log.Info("executed %s", name)
			return nil
		})
		if err != nil {
			return err
		}
	}

	return reg.RegisterCommand("app.quit", func(ctx context.Context, args map[string]any) error {
		return errQuit
	})
}
