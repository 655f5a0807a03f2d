package flowdeck

import (
	"github.com/dmitrymomot/flowdeck/internal"
	"github.com/dmitrymomot/flowdeck/pkg/cookie"
	"github.com/dmitrymomot/flowdeck/pkg/logger"
	"github.com/dmitrymomot/flowdeck/pkg/session"
	"github.com/dmitrymomot/flowdeck/pkg/user"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle: the session gateway,
	// extension loading, routing, and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Component is the interface for renderable templates.
	Component = internal.Component

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// HTTPError represents an HTTP error with a status code.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// Session represents an authenticated session pinned to an IP.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// User is an authenticated principal.
	User = user.User

	// UserManager authenticates credentials and resolves roles.
	UserManager = user.Manager

	// ResponseWriter wraps http.ResponseWriter with write tracking.
	ResponseWriter = internal.ResponseWriter
)

// New creates a new application with the given options.
// Viewer and trigger bundles are loaded during construction; the App is
// immutable afterwards.
//
// Example:
//
//	app := flowdeck.New(
//	    flowdeck.WithLogger(log),
//	    flowdeck.WithSessionStore(store),
//	    flowdeck.WithUserManager(users),
//	    flowdeck.WithViewerDir("plugins/viewer"),
//	    flowdeck.WithTriggerDir("plugins/trigger"),
//	)
//
//	err := app.Run(":8080", flowdeck.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}
