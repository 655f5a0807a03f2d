package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/flowdeck/pkg/clientip"
	"github.com/dmitrymomot/flowdeck/pkg/useragent"
)

// accessRecordKey carries the accessRecord through the request context.
type accessRecordKey struct{}

// accessRecord is filled in by the gateway once the caller is known, so
// the access line can attribute the request to a user.
type accessRecord struct {
	user string
}

// markRequestUser records the authenticated user for the access log.
func markRequestUser(ctx context.Context, username string) {
	if rec, ok := ctx.Value(accessRecordKey{}).(*accessRecord); ok {
		rec.user = username
	}
}

// accessLogMiddleware records one line per request once the response is
// complete: client address, user, request line, status, bytes, and
// duration. It installs the ResponseWriter wrapper that the rest of the
// pipeline relies on for write tracking.
func (a *App) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := NewResponseWriter(w)
		start := time.Now()

		rec := &accessRecord{}
		r = r.WithContext(context.WithValue(r.Context(), accessRecordKey{}, rec))

		next.ServeHTTP(rw, r)

		userAgent := r.UserAgent()
		if a.classifyUserAgent {
			userAgent = useragent.Classify(userAgent)
		}

		a.accessLog.InfoContext(r.Context(), "request",
			slog.String("ip", clientip.Resolve(r.Header, r.RemoteAddr)),
			slog.String("user", orDash(rec.user)),
			slog.String("method", r.Method),
			slog.String("uri", r.URL.Path),
			slog.String("query", orDash(r.URL.RawQuery)),
			slog.String("proto", r.Proto),
			slog.Int("status", rw.Status()),
			slog.Int64("bytes", rw.Size()),
			slog.Duration("duration", time.Since(start)),
			slog.String("user_agent", userAgent),
			slog.String("referer", r.Referer()),
		)
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
