package user

import "context"

// Manager verifies credentials and resolves roles. Implementations must
// be safe for concurrent use; the gateway calls Authenticate from
// request-handling goroutines.
type Manager interface {
	// Authenticate verifies a username/password pair and returns the
	// matching user. Returns ErrAuthentication on any credential
	// failure; the distinction between unknown user and bad password is
	// deliberately not exposed.
	Authenticate(ctx context.Context, username, password string) (*User, error)

	// Role resolves a role name. The boolean reports existence.
	Role(name string) (*Role, bool)
}
