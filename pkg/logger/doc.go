// Package logger builds structured loggers on top of log/slog: context
// extractors inject request-scoped attributes (request ID, session user)
// into every record, and an optional Sentry handler reports errors with
// graceful fallback to stdout when no DSN is configured.
//
// Create a logger with extractors:
//
//	requestIDExtractor := func(ctx context.Context) (slog.Attr, bool) {
//		if id, ok := ctx.Value(ctxKeyRequestID).(string); ok && id != "" {
//			return slog.String("request_id", id), true
//		}
//		return slog.Attr{}, false
//	}
//
//	log := logger.New(requestIDExtractor)
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//
// For production error tracking:
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//		MinLevel:    slog.LevelWarn,
//	}, requestIDExtractor)
//
// If the DSN is empty the logger falls back to stdout-only logging, so the
// same code path works in development and production. Components that run
// without configured logging use NewNope.
package logger
