package loader

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/sjson"
)

// JSON is the codec for .json records. Set edits the raw document in place
// with sjson, so unrelated keys and their order survive a write-through.
type JSON struct{}

// Extensions returns the extensions handled by the codec.
func (JSON) Extensions() []string { return []string{".json"} }

// Load parses JSON record bytes into a map.
func (JSON) Load(path string, data []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		pe := &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			pe.Line, pe.Column = lineCol(data, syn.Offset)
		}
		var typ *json.UnmarshalTypeError
		if errors.As(err, &typ) {
			pe.Line, pe.Column = lineCol(data, typ.Offset)
		}
		return nil, pe
	}
	return m, nil
}

// Marshal encodes a record map as indented JSON.
func (JSON) Marshal(m map[string]any) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return append(data, '\n'), nil
}

// Set updates one path in raw JSON record bytes. Path syntax is sjson's
// (dot-separated, literal dots escaped with a backslash). Empty data creates
// a fresh record.
func (JSON) Set(data []byte, path string, value any) ([]byte, error) {
	updated, err := sjson.SetBytes(data, path, value)
	if err != nil {
		return nil, fmt.Errorf("updating record path %q: %w", path, err)
	}
	return updated, nil
}

// lineCol converts a byte offset into 1-based line and column numbers.
func lineCol(data []byte, offset int64) (int, int) {
	line, col := 1, 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
