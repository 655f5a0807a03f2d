package extension

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/dmitrymomot/flowdeck/pkg/props"
	"github.com/dmitrymomot/flowdeck/pkg/session"
	"github.com/dmitrymomot/flowdeck/pkg/trigger"
	"github.com/dmitrymomot/flowdeck/pkg/user"
)

// Host is the application surface handed to trigger extensions at
// construction time. The internal app satisfies it.
type Host interface {
	Logger() *slog.Logger
	Sessions() session.Store
	Users() user.Manager
}

// ViewerFactory constructs a viewer extension from its merged bundle
// configuration. The returned instance must implement http.Handler.
type ViewerFactory func(cfg *props.Properties) (any, error)

// TriggerFactory constructs a trigger extension. The returned instance
// must implement trigger's Registrant capability.
type TriggerFactory func(name string, cfg *props.Properties, tc *trigger.Context, host Host) (any, error)

// Registrant is the capability a trigger extension instance must
// satisfy: it contributes checker and action types to the scheduling
// context.
type Registrant interface {
	RegisterCheckers(tc *trigger.Context) error
	RegisterActions(tc *trigger.Context) error
}

// builtinFactories holds factories compiled into the host binary,
// keyed by entry name. Bundles whose entry matches a built-in factory
// skip shared-object loading entirely.
var builtinFactories = struct {
	viewers  map[string]ViewerFactory
	triggers map[string]TriggerFactory
	mu       sync.Mutex
}{
	viewers:  make(map[string]ViewerFactory),
	triggers: make(map[string]TriggerFactory),
}

// RegisterViewerFactory registers a compiled-in viewer factory under
// the given entry name. Typically called from an init function.
// Panics on duplicate registration, mirroring database/sql drivers.
func RegisterViewerFactory(entry string, f ViewerFactory) {
	builtinFactories.mu.Lock()
	defer builtinFactories.mu.Unlock()
	if _, dup := builtinFactories.viewers[entry]; dup {
		panic("extension: viewer factory registered twice: " + entry)
	}
	builtinFactories.viewers[entry] = f
}

// RegisterTriggerFactory registers a compiled-in trigger factory under
// the given entry name. Panics on duplicate registration.
func RegisterTriggerFactory(entry string, f TriggerFactory) {
	builtinFactories.mu.Lock()
	defer builtinFactories.mu.Unlock()
	if _, dup := builtinFactories.triggers[entry]; dup {
		panic("extension: trigger factory registered twice: " + entry)
	}
	builtinFactories.triggers[entry] = f
}

func builtinViewer(entry string) (ViewerFactory, bool) {
	builtinFactories.mu.Lock()
	defer builtinFactories.mu.Unlock()
	f, ok := builtinFactories.viewers[entry]
	return f, ok
}

func builtinTrigger(entry string) (TriggerFactory, bool) {
	builtinFactories.mu.Lock()
	defer builtinFactories.mu.Unlock()
	f, ok := builtinFactories.triggers[entry]
	return f, ok
}

// assertViewer checks the viewer capability.
func assertViewer(v any) (http.Handler, bool) {
	h, ok := v.(http.Handler)
	return h, ok
}

// assertRegistrant checks the trigger capability.
func assertRegistrant(v any) (Registrant, bool) {
	r, ok := v.(Registrant)
	return r, ok
}
