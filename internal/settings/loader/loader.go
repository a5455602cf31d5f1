// Package loader provides user-record codecs for the settings store.
//
// A codec parses one on-disk record format (JSON, TOML) into a settings map,
// marshals maps back, and applies single-path updates. Which codec a record
// uses is decided by file extension.
package loader

import (
	"fmt"
	"strings"
)

// Codec is the interface for one record file format.
type Codec interface {
	// Extensions returns the file extensions the codec handles,
	// lower case with leading dot.
	Extensions() []string

	// Load parses raw record bytes into a map. path is used for error
	// context only.
	Load(path string, data []byte) (map[string]any, error)

	// Marshal encodes a record map for writing.
	Marshal(m map[string]any) ([]byte, error)

	// Set updates one dot-separated path in raw record bytes and returns
	// the updated bytes. data may be empty (a record is created).
	Set(data []byte, path string, value any) ([]byte, error)
}

// Codecs returns all registered codecs, JSON first.
func Codecs() []Codec {
	return []Codec{JSON{}, TOML{}}
}

// ForExt returns the codec handling a file extension such as ".json".
func ForExt(ext string) (Codec, bool) {
	ext = strings.ToLower(ext)
	for _, c := range Codecs() {
		for _, e := range c.Extensions() {
			if e == ext {
				return c, true
			}
		}
	}
	return nil, false
}

// ParseError represents an error while parsing a record file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
