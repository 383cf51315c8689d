package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis with native key expiry.
//
// Connection failures are wrapped with [ErrNetwork] and retried with
// backoff. A closed client fails immediately.
type RedisCache struct {
	client     *redis.Client
	logger     *log.Logger
	retryDelay time.Duration
}

// RedisOption configures a [RedisCache].
type RedisOption func(*RedisCache)

// WithRedisLogger sets the logger for cache diagnostics.
func WithRedisLogger(l *log.Logger) RedisOption { return func(c *RedisCache) { c.logger = l } }

// NewRedisCache connects to the server at url ("redis://[:pass@]host:port/db")
// and verifies the connection with PING.
func NewRedisCache(ctx context.Context, url string, opts ...RedisOption) (*RedisCache, error) {
	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := NewRedisCacheFromClient(redis.NewClient(ropts), opts...)
	if err := c.Ping(ctx); err != nil {
		_ = c.client.Close()
		return nil, err
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client. The cache owns the
// client and closes it in [RedisCache.Close].
func NewRedisCacheFromClient(client *redis.Client, opts ...RedisOption) *RedisCache {
	c := &RedisCache{
		client:     client,
		logger:     log.New(io.Discard),
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks that the server is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return retry(ctx, c.retryDelay, func() error {
		return c.classify(ctx, "ping", c.client.Ping(ctx).Err())
	})
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	hit := false
	err := retry(ctx, c.retryDelay, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return c.classify(ctx, "get", err)
		}
		data, hit = b, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	c.logger.Debug("redis get", "key", key, "hit", hit)
	return data, hit, nil
}

// Set stores a value. A non-positive ttl never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return retry(ctx, c.retryDelay, func() error {
		return c.classify(ctx, "set", c.client.Set(ctx, key, data, ttl).Err())
	})
}

// Delete removes a value from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return retry(ctx, c.retryDelay, func() error {
		return c.classify(ctx, "del", c.client.Del(ctx, key).Err())
	})
}

// Close closes the underlying client.
func (c *RedisCache) Close() error { return c.client.Close() }

// classify maps a go-redis error onto the package's error model: context
// errors pass through, a closed client is permanent, anything else is a
// retryable network failure.
func (c *RedisCache) classify(ctx context.Context, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, redis.ErrClosed):
		return fmt.Errorf("%w: redis %s: %v", ErrNetwork, op, err)
	}
	c.logger.Debug("redis error", "op", op, "err", err)
	return Retryable(fmt.Errorf("%w: redis %s: %v", ErrNetwork, op, err))
}

var _ Cache = (*RedisCache)(nil)
