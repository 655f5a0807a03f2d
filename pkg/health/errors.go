package health

import "errors"

var (
	// ErrCheckFailed marks a failing check in the readiness report.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout marks a check that outlived its per-check timeout.
	ErrCheckTimeout = errors.New("health: check timeout")
)
