package internal

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/flowdeck/pkg/cookie"
	"github.com/dmitrymomot/flowdeck/pkg/session"
	"github.com/dmitrymomot/flowdeck/pkg/user"
)

// Option configures the App during construction.
type Option func(*App)

// WithLogger sets the application logger.
// Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithAccessLogger sets a dedicated logger for the access log.
// Defaults to the application logger.
func WithAccessLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.accessLog = l
		}
	}
}

// WithSessionStore sets the session store.
// Defaults to an in-memory store.
func WithSessionStore(s session.Store) Option {
	return func(a *App) {
		if s != nil {
			a.sessions = s
		}
	}
}

// WithUserManager sets the user manager used to authenticate credentials.
// Without a user manager every login attempt fails.
func WithUserManager(m user.Manager) Option {
	return func(a *App) {
		a.users = m
	}
}

// WithViewerDir sets the directory scanned for viewer bundles.
func WithViewerDir(dir string) Option {
	return func(a *App) {
		a.viewerDir = dir
	}
}

// WithTriggerDir sets the directory scanned for trigger bundles.
func WithTriggerDir(dir string) Option {
	return func(a *App) {
		a.triggerDir = dir
	}
}

// WithAssetDir adds a directory to the static asset search path.
// Directories are searched in registration order; viewer bundle web/
// directories are appended after all configured directories.
func WithAssetDir(dir string) Option {
	return func(a *App) {
		if dir != "" {
			a.assetRoots = append(a.assetRoots, dir)
		}
	}
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) Option {
	return func(a *App) {
		if name != "" {
			a.cookieName = name
		}
	}
}

// WithCookieManager sets a configured cookie manager, e.g. to force the
// Secure attribute or scope cookies to a domain.
func WithCookieManager(m *cookie.Manager) Option {
	return func(a *App) {
		if m != nil {
			a.cookies = m
		}
	}
}

// WithSessionMaxAge sets the Max-Age on the session cookie.
// Zero (the default) issues a browser-session cookie; the store still
// expires sessions on its own schedule.
func WithSessionMaxAge(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.sessionAge = d
		}
	}
}

// WithBrowserDetector overrides how User-Agent strings are classified.
// The default recognizes common browser markers; replace it when fronting
// clients with unusual agents.
func WithBrowserDetector(fn func(userAgent string) bool) Option {
	return func(a *App) {
		if fn != nil {
			a.browserCheck = fn
		}
	}
}

// WithUserAgentClassification logs the User-Agent's classification
// (browser or not) in place of the raw header, which can carry
// arbitrarily long client-controlled strings.
func WithUserAgentClassification() Option {
	return func(a *App) {
		a.classifyUserAgent = true
	}
}

// WithMaxUploadSize caps multipart request bodies in bytes.
// Defaults to 100MB.
func WithMaxUploadSize(n int64) Option {
	return func(a *App) {
		if n > 0 {
			a.maxUploadBytes = n
		}
	}
}

// WithMiddleware appends global middleware, executed in registration order.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers route handlers behind the session gateway.
func WithHandlers(handlers ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, handlers...)
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithHealth enables health check endpoints.
//
// Example:
//
//	flowdeck.WithHealth(
//	    flowdeck.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealth(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}
