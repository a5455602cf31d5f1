package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// TOML is the codec for .toml records. Unlike JSON, Set re-marshals the
// whole document: comments and key order are not preserved.
type TOML struct{}

// Extensions returns the extensions handled by the codec.
func (TOML) Extensions() []string { return []string{".toml"} }

// Load parses TOML record bytes into a map.
func (TOML) Load(path string, data []byte) (map[string]any, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		pe := &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
		var dec *toml.DecodeError
		if errors.As(err, &dec) {
			pe.Line, pe.Column = dec.Position()
		}
		return nil, pe
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// Marshal encodes a record map as TOML.
func (TOML) Marshal(m map[string]any) ([]byte, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return data, nil
}

// Set updates one dot-separated path in raw TOML record bytes. Intermediate
// tables are created as needed; escaped dots are not supported.
func (t TOML) Set(data []byte, path string, value any) ([]byte, error) {
	m := make(map[string]any)
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("updating record path %q: %w", path, err)
		}
	}

	parts := strings.Split(path, ".")
	cur := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value

	return t.Marshal(m)
}
