package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"keyloom/internal/logging"
	"keyloom/internal/settings"
	"keyloom/internal/settings/notify"
	"keyloom/internal/settings/watcher"
	"keyloom/internal/shortcuts"
)

// runWatch prints the binding table, then re-resolves and reprints it
// whenever the user settings directory changes on disk.
func runWatch(store *settings.Store, m *shortcuts.Manager, log *logging.Logger) int {
	printTable(os.Stdout, m)

	w, err := watcher.New(store.UserDir(), store.InvalidatePath, watcher.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: watching %s: %v\n", store.UserDir(), err)
		return 1
	}
	defer w.Close()

	// The manager's own record subscription reconciles first, so the
	// table read here reflects the change being reported.
	sub := store.Changed(func(c notify.Change) {
		if c.Record != shortcuts.SettingsID {
			return
		}
		fmt.Printf("\n-- %s changed (%s) --\n", c.Record, c.Type)
		printTable(os.Stdout, m)
	})
	defer sub.Unsubscribe()

	log.Info("watching %s", store.UserDir())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return 0
}
