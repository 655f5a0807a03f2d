package logger

import (
	"context"
	"log/slog"
	"os"
)

// ContextExtractor pulls a request-scoped attribute out of a context.
// Return false when the context carries nothing for this extractor.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// New builds a JSON logger writing to stdout at info level. Extractors
// run on every record so request IDs and session users appear on log
// lines emitted anywhere below the gateway.
func New(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(withContextAttrs(h, extractors...))
}

// NewNope returns a logger that discards everything. The server uses it
// as the default until an operator wires a real one in.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// contextHandler decorates another handler, appending extractor output
// to each record before delegating. Extraction happens per call, not at
// construction, since the interesting values live in the request context.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// withContextAttrs wraps next with the given extractors. Nil extractors
// are dropped here so Handle never has to check.
func withContextAttrs(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	kept := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			kept = append(kept, ex)
		}
	}
	if len(kept) == 0 {
		return next
	}
	return &contextHandler{next: next, extractors: kept}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
