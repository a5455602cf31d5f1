// Package main is the entry point for the keyloom demo host.
//
// The host wires the full stack together: a settings store fed by built-in
// and Lua contributors, the shortcuts manager reconciling both tiers, and a
// dispatch registry receiving the merged table. By default it prints the
// merged bindings and exits; -watch keeps it running and reprints on
// changes, -try opens an interactive chord tester.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"keyloom/internal/dispatch"
	"keyloom/internal/install"
	"keyloom/internal/logging"
	"keyloom/internal/plugin"
	"keyloom/internal/settings"
	"keyloom/internal/shortcuts"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logging.SetDefault(logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Output: os.Stderr,
		Prefix: "keyloom",
	}))
	log := logging.Default().WithComponent("host")

	store := settings.New(settings.WithUserDir(cfg.SettingsDir))

	for _, c := range builtinContributors() {
		if err := store.Register(c.ID, c.Manifest); err != nil {
			log.Warn("builtin contributor %s: %v", c.ID, err)
		}
	}

	if cfg.PluginsDir != "" {
		contribs, err := plugin.NewLoader().LoadDir(cfg.PluginsDir)
		if err != nil {
			log.Warn("plugin directory %s: %v", cfg.PluginsDir, err)
		}
		for _, c := range contribs {
			if err := store.Register(c.ID, c.Manifest); err != nil {
				log.Warn("plugin contributor %s: %v", c.ID, err)
				continue
			}
			log.Info("loaded plugin %s from %s", c.ID, c.Path)
		}
	}

	reg := dispatch.NewRegistry()
	if err := registerCommands(reg, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	installer := install.New(shortcuts.NewRegistryBinder(reg))
	manager := shortcuts.New(store, installer)
	defer manager.Close()

	if err := manager.Start(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: shortcuts unavailable: %v\n", err)
		return 1
	}

	switch {
	case opts.try:
		return runTry(reg, manager, cfg.Scopes)
	case opts.watch:
		return runWatch(store, manager, log)
	default:
		printTable(os.Stdout, manager)
		return 0
	}
}

// options holds the parsed command line. set records which flags were given
// explicitly so they can override the config file.
type options struct {
	configPath  string
	settingsDir string
	pluginsDir  string
	logLevel    string
	watch       bool
	try         bool
	set         map[string]bool
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to host configuration file (TOML)")
	flag.StringVar(&opts.configPath, "c", "", "Path to host configuration file (shorthand)")
	flag.StringVar(&opts.settingsDir, "settings", "", "Directory holding user settings records")
	flag.StringVar(&opts.settingsDir, "s", "", "Directory holding user settings records (shorthand)")
	flag.StringVar(&opts.pluginsDir, "plugins", "", "Directory holding Lua plugin scripts")
	flag.StringVar(&opts.pluginsDir, "p", "", "Directory holding Lua plugin scripts (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.watch, "watch", false, "Keep running and reprint the table on settings changes")
	flag.BoolVar(&opts.watch, "w", false, "Keep running and reprint the table on settings changes (shorthand)")
	flag.BoolVar(&opts.try, "try", false, "Open the interactive chord tester")
	flag.BoolVar(&opts.try, "t", false, "Open the interactive chord tester (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keyloom - key binding reconciliation demo host\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keyloom [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keyloom                     Print the merged binding table\n")
		fmt.Fprintf(os.Stderr, "  keyloom -s ~/.keyloom -w    Watch the settings dir and reprint on changes\n")
		fmt.Fprintf(os.Stderr, "  keyloom -p ./plugins -t     Load plugins and open the chord tester\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keyloom %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	opts.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	return opts
}
