package extension

import (
	"errors"
	"fmt"
)

// Load stages reported by LoadError.
const (
	StageDescriptor = "descriptor"
	StageScope      = "scope"
	StageEntry      = "entry"
	StageConstruct  = "construct"
	StageCapability = "capability"
)

// ErrDuplicateName is returned when two bundles of the same kind
// declare the same name within one load pass.
var ErrDuplicateName = errors.New("extension: duplicate name")

// LoadError describes why a single bundle failed to load. A LoadError
// never aborts the load pass; the bundle is logged and skipped so one
// bad bundle cannot prevent its siblings from loading.
type LoadError struct {
	Err    error
	Bundle string
	Stage  string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("extension %s: %s: %v", e.Bundle, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadErr(bundle, stage string, err error) *LoadError {
	return &LoadError{Bundle: bundle, Stage: stage, Err: err}
}
