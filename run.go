package flowdeck

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/flowdeck/internal"
)

// Address sets the HTTP server address.
// Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the runtime logger used for server lifecycle messages.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run before the server accepts
// traffic. A failing hook aborts start-up.
//
// Example:
//
//	flowdeck.StartupHook(func(ctx context.Context) error {
//	    return db.Migrate(ctx, pool, migrations, "schema_migrations", log)
//	})
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
//
// Example:
//
//	flowdeck.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
// Defaults to context.Background().
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}
