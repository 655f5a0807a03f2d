package redis

import (
	"context"
	"io"
)

// Shutdown returns a hook that closes the client on server shutdown.
// Register it with flowdeck.ShutdownHook.
func Shutdown(client io.Closer) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Close()
	}
}
