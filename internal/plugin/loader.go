package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"keyloom/internal/logging"
	"keyloom/internal/shortcuts"
)

// Loader runs plugin scripts and collects their contributions.
type Loader struct {
	log *logging.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used by the loader.
func WithLogger(l *logging.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l.WithComponent("plugin")
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	ld := &Loader{
		log: logging.Default().WithComponent("plugin"),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// LoadDir runs every *.lua file in dir in lexical order and returns the
// contributions of the scripts that succeeded. Failing scripts are logged
// and skipped. A missing directory is not an error.
func (l *Loader) LoadDir(dir string) ([]Contribution, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var contribs []Contribution
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		c, err := l.LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			l.log.Warn("skipping plugin: %v", err)
			continue
		}
		contribs = append(contribs, c)
	}
	return contribs, nil
}

// LoadFile runs a single script and returns its contribution. The script
// must call keyloom.contribute exactly once.
func (l *Loader) LoadFile(path string) (Contribution, error) {
	L := newState()
	defer L.Close()

	var (
		c    Contribution
		seen bool
	)

	mod := L.NewTable()
	L.SetField(mod, "contribute", L.NewFunction(func(ls *lua.LState) int {
		tbl := ls.CheckTable(1)
		if seen {
			ls.RaiseError("contribute: already called")
			return 0
		}

		id, ok := tbl.RawGetString("id").(lua.LString)
		if !ok || string(id) == "" {
			ls.RaiseError("contribute: id must be a non-empty string")
			return 0
		}

		list := make([]any, 0)
		if sv := tbl.RawGetString("shortcuts"); sv != lua.LNil {
			st, ok := sv.(*lua.LTable)
			if !ok {
				ls.RaiseError("contribute: shortcuts must be a table")
				return 0
			}
			switch converted := luaToGo(st).(type) {
			case []any:
				list = converted
			case map[string]any:
				if len(converted) > 0 {
					ls.RaiseError("contribute: shortcuts must be an array")
					return 0
				}
			}
		}

		manifest, err := json.Marshal(map[string]any{shortcuts.ExtensionKey: list})
		if err != nil {
			ls.RaiseError("contribute: %v", err)
			return 0
		}

		c = Contribution{ID: string(id), Path: path, Manifest: manifest}
		seen = true
		return 0
	}))
	L.SetGlobal("keyloom", mod)

	if err := doFile(L, path); err != nil {
		return Contribution{}, fmt.Errorf("plugin %s: %w", filepath.Base(path), err)
	}
	if !seen {
		return Contribution{}, fmt.Errorf("plugin %s: %w", filepath.Base(path), ErrNoContribution)
	}
	return c, nil
}
