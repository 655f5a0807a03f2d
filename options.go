package flowdeck

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/flowdeck/internal"
	"github.com/dmitrymomot/flowdeck/pkg/cookie"
	"github.com/dmitrymomot/flowdeck/pkg/health"
	"github.com/dmitrymomot/flowdeck/pkg/session"
	"github.com/dmitrymomot/flowdeck/pkg/user"
)

// WithLogger sets the application logger.
// Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithAccessLogger sets a dedicated logger for the access log.
// Defaults to the application logger.
func WithAccessLogger(l *slog.Logger) Option {
	return internal.WithAccessLogger(l)
}

// WithSessionStore sets the session store.
// Defaults to an in-memory store.
//
// Example:
//
//	flowdeck.WithSessionStore(session.NewRedis(client))
func WithSessionStore(s session.Store) Option {
	return internal.WithSessionStore(s)
}

// WithUserManager sets the user manager used to authenticate credentials.
func WithUserManager(m user.Manager) Option {
	return internal.WithUserManager(m)
}

// WithViewerDir sets the directory scanned for viewer bundles.
func WithViewerDir(dir string) Option {
	return internal.WithViewerDir(dir)
}

// WithTriggerDir sets the directory scanned for trigger bundles.
func WithTriggerDir(dir string) Option {
	return internal.WithTriggerDir(dir)
}

// WithAssetDir adds a directory to the static asset search path.
func WithAssetDir(dir string) Option {
	return internal.WithAssetDir(dir)
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) Option {
	return internal.WithCookieName(name)
}

// WithCookieManager sets a configured cookie manager.
//
// Example:
//
//	flowdeck.WithCookieManager(cookie.New(cookie.WithSecure(true)))
func WithCookieManager(m *cookie.Manager) Option {
	return internal.WithCookieManager(m)
}

// WithSessionMaxAge sets the Max-Age on the session cookie.
// Zero (the default) issues a browser-session cookie.
func WithSessionMaxAge(d time.Duration) Option {
	return internal.WithSessionMaxAge(d)
}

// WithBrowserDetector overrides how User-Agent strings are classified.
func WithBrowserDetector(fn func(userAgent string) bool) Option {
	return internal.WithBrowserDetector(fn)
}

// WithUserAgentClassification logs the User-Agent's classification
// (browser or not) in the access log instead of the raw header.
func WithUserAgentClassification() Option {
	return internal.WithUserAgentClassification()
}

// WithMaxUploadSize caps multipart request bodies in bytes.
// Defaults to 100MB.
func WithMaxUploadSize(n int64) Option {
	return internal.WithMaxUploadSize(n)
}

// WithMiddleware appends global middleware, executed in registration order.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers route handlers behind the session gateway.
//
// Example:
//
//	flowdeck.WithHandlers(
//	    handlers.NewStatus(store),
//	)
func WithHandlers(handlers ...Handler) Option {
	return internal.WithHandlers(handlers...)
}

// WithErrorHandler sets a custom error handler for handler errors.
//
// Example:
//
//	flowdeck.WithErrorHandler(func(c flowdeck.Context, err error) error {
//	    return c.JSON(http.StatusInternalServerError, map[string]string{
//	        "error": err.Error(),
//	    })
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithHealthChecks enables health check endpoints.
// Liveness (/health/live): Always returns OK if the process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	flowdeck.WithHealthChecks(
//	    flowdeck.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealth(opts...)
}

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}
