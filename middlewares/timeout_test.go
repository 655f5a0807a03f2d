package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowdeck/internal"
	"github.com/dmitrymomot/flowdeck/middlewares"
)

func runTimeout(t *testing.T, d time.Duration, h internal.HandlerFunc) error {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/flows", nil)
	ctx := newTestContext(httptest.NewRecorder(), req)
	return middlewares.Timeout(d)(h)(ctx)
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("fast handler passes through", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, runTimeout(t, 100*time.Millisecond, func(c internal.Context) error {
			return nil
		}))
	})

	t.Run("slow handler yields a TimeoutError", func(t *testing.T) {
		t.Parallel()

		err := runTimeout(t, 10*time.Millisecond, func(c internal.Context) error {
			time.Sleep(200 * time.Millisecond)
			return nil
		})

		te, ok := middlewares.AsTimeoutError(err)
		require.True(t, ok)
		require.Equal(t, 10*time.Millisecond, te.Duration)
	})

	t.Run("handler errors win over the deadline", func(t *testing.T) {
		t.Parallel()

		want := errors.New("store unavailable")
		err := runTimeout(t, time.Second, func(c internal.Context) error {
			return want
		})
		require.ErrorIs(t, err, want)
	})

	t.Run("zero duration falls back to the default", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, runTimeout(t, 0, func(c internal.Context) error {
			return nil
		}))
	})

	t.Run("handlers observe the deadline via GetTimeoutContext", func(t *testing.T) {
		t.Parallel()

		err := runTimeout(t, 50*time.Millisecond, func(c internal.Context) error {
			ctx := middlewares.GetTimeoutContext(c)
			_, ok := ctx.Deadline()
			require.True(t, ok)
			return nil
		})
		require.NoError(t, err)
	})
}
