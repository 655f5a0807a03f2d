package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowdeck/internal"
	"github.com/dmitrymomot/flowdeck/middlewares"
)

func runRecover(t *testing.T, h internal.HandlerFunc, opts ...middlewares.RecoverOption) error {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/flows/run", nil)
	ctx := newTestContext(httptest.NewRecorder(), req)
	return middlewares.Recover(opts...)(h)(ctx)
}

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("panic becomes a PanicError with the stack", func(t *testing.T) {
		t.Parallel()

		err := runRecover(t, func(c internal.Context) error {
			panic("viewer blew up")
		})

		require.Error(t, err)
		pe, ok := middlewares.AsPanicError(err)
		require.True(t, ok)
		require.Equal(t, "viewer blew up", pe.Value)
		require.NotEmpty(t, pe.Stack)
		require.Contains(t, string(pe.Stack), "goroutine")
	})

	t.Run("non-string panic values survive", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("nil session store")
		err := runRecover(t, func(c internal.Context) error {
			panic(cause)
		})

		pe, ok := middlewares.AsPanicError(err)
		require.True(t, ok)
		require.Equal(t, cause, pe.Value)
	})

	t.Run("normal completion passes through", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, runRecover(t, func(c internal.Context) error {
			return nil
		}))
	})

	t.Run("handler errors are not wrapped", func(t *testing.T) {
		t.Parallel()

		want := errors.New("downstream failed")
		err := runRecover(t, func(c internal.Context) error {
			return want
		})

		require.ErrorIs(t, err, want)
		require.False(t, middlewares.IsPanicError(err))
	})

	t.Run("stack capture can be disabled", func(t *testing.T) {
		t.Parallel()

		err := runRecover(t, func(c internal.Context) error {
			panic("quiet")
		}, middlewares.WithRecoverDisablePrintStack())

		pe, ok := middlewares.AsPanicError(err)
		require.True(t, ok)
		require.Nil(t, pe.Stack)
	})

	t.Run("stack size caps the capture", func(t *testing.T) {
		t.Parallel()

		err := runRecover(t, func(c internal.Context) error {
			panic("deep")
		}, middlewares.WithRecoverStackSize(64))

		pe, ok := middlewares.AsPanicError(err)
		require.True(t, ok)
		require.LessOrEqual(t, len(pe.Stack), 64)
	})
}
