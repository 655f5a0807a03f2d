// Package trigger collects the checker and action types that trigger
// extensions contribute to the scheduling engine.
//
// The engine that evaluates checkers and fires actions is a separate
// component; this package only owns the registration surface that
// extensions program against.
package trigger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Registration errors.
var (
	// ErrDuplicate is returned when a checker or action type name is
	// registered twice.
	ErrDuplicate = errors.New("trigger: type already registered")

	// ErrBadSchedule is returned when a checker declares an invalid
	// cron schedule.
	ErrBadSchedule = errors.New("trigger: invalid schedule")
)

// CheckerFactory builds a checker instance from its stored parameters.
type CheckerFactory func(params map[string]any) (Checker, error)

// ActionFactory builds an action instance from its stored parameters.
type ActionFactory func(params map[string]any) (Action, error)

// Checker evaluates a trigger condition.
type Checker interface {
	// Eval reports whether the condition currently holds.
	Eval() (bool, error)
}

// Action is fired when a trigger's condition holds.
type Action interface {
	// Run performs the action.
	Run() error
}

// Context accumulates checker and action registrations during the
// single-threaded extension loading phase. It is read-only once loading
// completes.
type Context struct {
	checkers map[string]CheckerFactory
	actions  map[string]ActionFactory
	logger   *slog.Logger
}

// NewContext creates an empty registration context.
func NewContext(logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		checkers: make(map[string]CheckerFactory),
		actions:  make(map[string]ActionFactory),
		logger:   logger,
	}
}

// RegisterChecker registers a named checker type. An optional cron
// schedule declares how often the engine re-evaluates the checker; it
// is validated here so a malformed schedule fails at load time rather
// than at first evaluation. Pass "" for event-driven checkers.
func (c *Context) RegisterChecker(name, schedule string, f CheckerFactory) error {
	if _, exists := c.checkers[name]; exists {
		return fmt.Errorf("%w: checker %q", ErrDuplicate, name)
	}
	if schedule != "" {
		if _, err := cron.ParseStandard(schedule); err != nil {
			return fmt.Errorf("%w: checker %q: %v", ErrBadSchedule, name, err)
		}
	}
	c.logger.Debug("registered checker type", slog.String("name", name))
	c.checkers[name] = f
	return nil
}

// RegisterAction registers a named action type.
func (c *Context) RegisterAction(name string, f ActionFactory) error {
	if _, exists := c.actions[name]; exists {
		return fmt.Errorf("%w: action %q", ErrDuplicate, name)
	}
	c.logger.Debug("registered action type", slog.String("name", name))
	c.actions[name] = f
	return nil
}

// Checker returns the factory for a checker type name.
func (c *Context) Checker(name string) (CheckerFactory, bool) {
	f, ok := c.checkers[name]
	return f, ok
}

// Action returns the factory for an action type name.
func (c *Context) Action(name string) (ActionFactory, bool) {
	f, ok := c.actions[name]
	return f, ok
}

// CheckerTypes returns the registered checker type names.
func (c *Context) CheckerTypes() []string {
	out := make([]string, 0, len(c.checkers))
	for name := range c.checkers {
		out = append(out, name)
	}
	return out
}

// ActionTypes returns the registered action type names.
func (c *Context) ActionTypes() []string {
	out := make([]string, 0, len(c.actions))
	for name := range c.actions {
		out = append(out, name)
	}
	return out
}
