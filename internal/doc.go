// Package internal contains the web application core: the App type, the
// Context abstraction over request/response handling, the session gateway
// that authenticates every page request, static asset serving, and the
// runtime that owns the HTTP server lifecycle.
//
// The public flowdeck package re-exports the types from this package;
// application code should import github.com/dmitrymomot/flowdeck instead.
package internal
