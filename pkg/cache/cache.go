package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sushka2023/sushka-shop-backend/pkg/config"
)

// DefaultTTL matches the read-projection lifetime of the storefront.
const DefaultTTL = 1800 * time.Second

// ErrMiss is returned when the key does not exist in the cache.
var ErrMiss = errors.New("cache miss")

type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	CacheKey(parts ...string) string
	CachePrefix() string
}

// Cache is the opaque key/value read-side cache. Every write anywhere in the
// system flushes the whole namespace; reads fall through on any redis error.
type Cache struct {
	store store
	ttl   time.Duration
}

// New builds a cache with the configured TTL.
func New(store store, cfg config.CacheConfig) (*Cache, error) {
	if store == nil {
		return nil, errors.New("cache store required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, ttl: ttl}, nil
}

// Key builds the cache key for a query shape. The caller passes the request
// method, path, raw query, and the user id when the projection is per-user.
func (c *Cache) Key(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		clean = append(clean, strings.TrimSpace(part))
	}
	return c.store.CacheKey(clean...)
}

// Get returns the serialized projection stored at key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return []byte(value), nil
}

// Set stores a serialized projection under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	return c.store.Set(ctx, key, string(value), c.ttl)
}

// Flush drops every cached projection.
func (c *Cache) Flush(ctx context.Context) error {
	return c.store.DeleteByPrefix(ctx, c.store.CachePrefix())
}
