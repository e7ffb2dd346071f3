package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds staleness of cached property values. Configuration rows
// change rarely; a short TTL keeps edits visible without store round-trips
// on every resolve.
const DefaultTTL = 30 * time.Second

// Redis caches resolved property values keyed by (instance, key).
//
// The cache is an optimization, never a correctness dependency: every error
// is logged and treated as a miss so resolution falls through to the store.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a Redis cache.
type Option func(*Redis)

// WithTTL overrides the default entry TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Redis) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the logger for cache failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Redis) {
		c.logger = logger
	}
}

// NewRedis constructs a Redis-backed value cache.
func NewRedis(client *redis.Client, opts ...Option) *Redis {
	c := &Redis{
		client: client,
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for (instance, key), if present.
func (c *Redis) Get(ctx context.Context, instance, key string) (string, bool) {
	value, err := c.client.Get(ctx, cacheKey(instance, key)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "config cache read failed", "key", key, "error", err)
		}
		return "", false
	}
	return value, true
}

// Set stores a resolved value for (instance, key).
func (c *Redis) Set(ctx context.Context, instance, key, value string) {
	if err := c.client.Set(ctx, cacheKey(instance, key), value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "config cache write failed", "key", key, "error", err)
	}
}

func cacheKey(instance, key string) string {
	return fmt.Sprintf("crmkit:config:%s:%s", instance, key)
}
