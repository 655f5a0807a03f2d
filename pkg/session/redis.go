package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a session store backed by Redis, for deployments running
// more than one web front-end replica. Records are JSON-marshalled;
// age eviction maps to the key TTL.
type Redis struct {
	client redis.UniversalClient
	opts   *redisOptions
}

// NewRedis creates a Redis-backed session store.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	o := defaultRedisOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Redis{client: client, opts: o}
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: redis get: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: decode record: %w", err)
	}
	return &s, nil
}

// Put implements Store.
func (r *Redis) Put(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode record: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.Token), data, r.opts.maxAge).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

// Healthcheck returns a readiness check function for the backing client.
func (r *Redis) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		return r.client.Ping(ctx).Err()
	}
}

func (r *Redis) key(token string) string {
	return r.opts.prefix + ":" + token
}

// RedisOption configures the Redis-backed store.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix string
	maxAge time.Duration
}

func defaultRedisOptions() *redisOptions {
	return &redisOptions{
		prefix: "flowdeck:session",
		maxAge: 10 * 24 * time.Hour,
	}
}

// WithRedisPrefix sets the key prefix. Default: "flowdeck:session".
func WithRedisPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithRedisMaxAge sets the record TTL. Zero or negative stores records
// without expiration. Default: 10 days.
func WithRedisMaxAge(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.maxAge = max(d, 0)
	}
}
