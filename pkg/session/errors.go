package session

import "errors"

// Session store errors.
var (
	// ErrNotFound is returned when a session does not exist in the store.
	ErrNotFound = errors.New("session: not found")

	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("session: store closed")
)
