package user

import "errors"

// Sentinel errors for the user package.
var (
	// ErrAuthentication is returned when credential verification fails.
	// Its message is user-visible; it is always request-scoped and never
	// escalates beyond the login flow.
	ErrAuthentication = errors.New("user: incorrect username or password")

	// ErrNotFound is returned when a user or role does not exist.
	ErrNotFound = errors.New("user: not found")
)
