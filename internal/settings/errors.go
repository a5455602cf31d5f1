package settings

import (
	"errors"

	"keyloom/internal/settings/loader"
)

// Errors returned by settings operations.
var (
	// ErrNotRegistered indicates the settings record id has no registered
	// contributor.
	ErrNotRegistered = errors.New("settings record not registered")

	// ErrAlreadyRegistered indicates a duplicate contributor registration.
	ErrAlreadyRegistered = errors.New("contributor already registered")

	// ErrInvalidManifest indicates a contributor manifest that is not
	// valid JSON.
	ErrInvalidManifest = errors.New("invalid contributor manifest")
)

// ParseError is the typed error returned when a user record file cannot be
// parsed. It carries the file path and, when available, the position.
type ParseError = loader.ParseError
