package session

import "context"

// Store persists sessions between requests. Implementations must be
// safe for concurrent use and operations on the same token must be
// linearizable: a Get concurrent with a Put for the same token observes
// either the old record or the new one, never a partial write.
type Store interface {
	// Get retrieves a session by token. Returns ErrNotFound when the
	// token is unknown or the record was evicted.
	Get(ctx context.Context, token string) (*Session, error)

	// Put registers a session under its token.
	Put(ctx context.Context, s *Session) error

	// Delete removes a session by token. Deleting an absent token is
	// not an error.
	Delete(ctx context.Context, token string) error
}
