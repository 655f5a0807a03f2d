package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connection defaults tuned for a session store: small pool, short
// operation timeouts, a few boot-time retries.
const (
	defaultPoolSize      = 10
	defaultRetryAttempts = 3
	defaultRetryInterval = 5 * time.Second
	defaultOpTimeout     = 3 * time.Second
	defaultDialTimeout   = 5 * time.Second
)

// Option adjusts connection settings before dialing.
type Option func(*settings)

type settings struct {
	poolSize      int
	retryAttempts int
	retryInterval time.Duration
}

// WithPoolSize caps the connection pool. Default 10.
func WithPoolSize(n int) Option {
	return func(s *settings) { s.poolSize = n }
}

// WithRetry sets boot-time retry behavior: attempts tries, with a backoff
// that grows by interval each round. Default 3 attempts, 5s interval.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(s *settings) {
		s.retryAttempts = attempts
		s.retryInterval = interval
	}
}

// Open dials Redis from a redis:// or rediss:// URL and verifies the
// connection with a ping before returning. Transient dial failures are
// retried with growing backoff so the server can start while Redis is
// still coming up.
//
//	client, err := redis.Open(ctx, cfg.RedisURL)
//	store := session.NewRedis(client)
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrParseURL
	}

	s := settings{
		poolSize:      defaultPoolSize,
		retryAttempts: defaultRetryAttempts,
		retryInterval: defaultRetryInterval,
	}
	for _, opt := range opts {
		opt(&s)
	}

	parsed, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrParseURL, err)
	}
	parsed.PoolSize = s.poolSize
	parsed.ReadTimeout = defaultOpTimeout
	parsed.WriteTimeout = defaultOpTimeout
	parsed.DialTimeout = defaultDialTimeout

	attempts := max(s.retryAttempts, 1)
	for i := range attempts {
		client := redis.NewClient(parsed)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnect, ctx.Err())
		case <-time.After(time.Duration(i+1) * s.retryInterval):
		}
	}

	return nil, ErrConnect
}
