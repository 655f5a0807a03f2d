package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty URL is rejected before dialing", func(t *testing.T) {
		t.Parallel()

		client, err := Open(ctx, "")
		require.ErrorIs(t, err, ErrEmptyURL)
		require.Nil(t, client)
	})

	t.Run("only redis schemes are accepted", func(t *testing.T) {
		t.Parallel()

		for _, url := range []string{
			"http://localhost:6379",
			"localhost:6379",
			"postgres://localhost:6379",
		} {
			client, err := Open(ctx, url)
			require.ErrorIs(t, err, ErrParseURL, url)
			require.Nil(t, client)
		}
	})

	t.Run("malformed URL surfaces the parse error", func(t *testing.T) {
		t.Parallel()

		client, err := Open(ctx, "redis://localhost:6379/notadb")
		require.ErrorIs(t, err, ErrParseURL)
		require.Nil(t, client)
	})

	t.Run("cancelled context stops the retry loop", func(t *testing.T) {
		t.Parallel()

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		// Nothing listens on this port; the first ping fails and the
		// backoff select observes the dead context.
		start := time.Now()
		client, err := Open(cancelled, "redis://127.0.0.1:1/0",
			WithRetry(5, 10*time.Second))
		require.ErrorIs(t, err, ErrConnect)
		require.ErrorIs(t, err, context.Canceled)
		require.Nil(t, client)
		require.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	t.Run("nil client fails the check", func(t *testing.T) {
		t.Parallel()

		err := Healthcheck(nil)(context.Background())
		require.ErrorIs(t, err, ErrHealthcheck)
	})
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	t.Run("closes the client", func(t *testing.T) {
		t.Parallel()

		closer := &recordingCloser{}
		require.NoError(t, Shutdown(closer)(context.Background()))
		require.True(t, closer.closed)
	})

	t.Run("surfaces the close error", func(t *testing.T) {
		t.Parallel()

		want := errors.New("connection reset")
		closer := &recordingCloser{err: want}
		err := Shutdown(closer)(context.Background())
		require.ErrorIs(t, err, want)
		require.True(t, closer.closed)
	})
}

type recordingCloser struct {
	closed bool
	err    error
}

func (c *recordingCloser) Close() error {
	c.closed = true
	return c.err
}
