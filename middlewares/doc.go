// Package middlewares provides HTTP middleware for flowdeck applications.
//
// # Request ID
//
// RequestID assigns a unique ID to each request for tracing. It reuses an
// ID from the incoming headers when present, otherwise generates a ULID.
//
//	app, err := flowdeck.New(
//	    flowdeck.WithMiddleware(middlewares.RequestID()),
//	)
//
// Pair it with RequestIDExtractor so every log line carries the request_id:
//
//	log, err := logger.New(middlewares.RequestIDExtractor())
//
// # Recover
//
// Recover catches panics in handlers, logs them with a stack trace, and
// converts them into a PanicError for the app's error handler:
//
//	flowdeck.WithMiddleware(middlewares.Recover())
//
// # Timeout
//
// Timeout enforces a per-request deadline. Handlers that honor
// GetTimeoutContext can stop early when the deadline passes:
//
//	flowdeck.WithMiddleware(middlewares.Timeout(10 * time.Second))
//
// Middleware order matters: Recover should come first so that panics in
// later middleware are still caught.
package middlewares
