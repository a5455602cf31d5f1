package dispatch

import "errors"

// Registry errors.
var (
	// ErrUnknownCommand is returned by Dispatch when no handler is
	// registered for the command name.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrDuplicateCommand is returned when registering a command name that
	// already has a handler.
	ErrDuplicateCommand = errors.New("command already registered")

	// ErrNilHandler is returned when registering a nil handler.
	ErrNilHandler = errors.New("nil handler")

	// ErrInvalidBinding is returned by AddBinding for structurally invalid
	// registrations.
	ErrInvalidBinding = errors.New("invalid binding")
)
