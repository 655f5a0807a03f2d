// Package redis wraps [github.com/redis/go-redis/v9] with connection
// pooling defaults, startup retries, a health check, and a graceful
// shutdown hook.
//
// # Usage
//
//	client, err := redis.Open(ctx, os.Getenv("FLOWDECK_REDIS_URL"),
//	    redis.WithPoolSize(20),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// Both redis:// and rediss:// (TLS) URL schemes are supported. Open
// retries the initial ping with a growing wait so a service can start
// before its Redis instance is ready.
//
// # Health Checks
//
// [Healthcheck] returns a func(context.Context) error suitable for
// readiness probes:
//
//	flowdeck.WithReadinessCheck("redis", redis.Healthcheck(client))
//
// # Graceful Shutdown
//
// [Shutdown] closes the client when the server drains:
//
//	app.Run(addr, flowdeck.ShutdownHook(redis.Shutdown(client)))
//
// # Errors
//
// Failure modes are reported through sentinel errors
// ([ErrEmptyURL], [ErrParseURL], [ErrConnect],
// [ErrHealthcheck]) joined with the underlying cause.
package redis
