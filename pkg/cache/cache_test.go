package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sushka2023/sushka-shop-backend/pkg/config"
)

type fakeStore struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	value, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) DeleteByPrefix(_ context.Context, prefix string) error {
	if f.err != nil {
		return f.err
	}
	for key := range f.values {
		if strings.HasPrefix(key, prefix) {
			delete(f.values, key)
		}
	}
	return nil
}

func (f *fakeStore) CacheKey(parts ...string) string {
	return "sushka:cache:" + strings.Join(parts, ":")
}

func (f *fakeStore) CachePrefix() string {
	return "sushka:cache"
}

func TestCacheRoundTrip(t *testing.T) {
	store := newFakeStore()
	c, err := New(store, config.CacheConfig{TTL: time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := c.Key("GET", "/product/all", "limit=10")
	ctx := context.Background()

	if _, err := c.Get(ctx, key); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss, got %v", err)
	}

	if err := c.Set(ctx, key, []byte(`{"items":[]}`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `{"items":[]}` {
		t.Fatalf("unexpected value %q", got)
	}
	if store.ttls[key] != time.Minute {
		t.Fatalf("expected configured ttl, got %v", store.ttls[key])
	}
}

func TestFlushDropsEverything(t *testing.T) {
	store := newFakeStore()
	c, err := New(store, config.CacheConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	_ = c.Set(ctx, c.Key("GET", "/product/all"), []byte("a"))
	_ = c.Set(ctx, c.Key("GET", "/nova_poshta"), []byte("b"))

	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if _, err := c.Get(ctx, c.Key("GET", "/product/all")); !errors.Is(err, ErrMiss) {
		t.Fatal("expected all entries to be flushed")
	}
}

func TestGetSurfacesStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection refused")
	c, err := New(store, config.CacheConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Get(context.Background(), "k"); errors.Is(err, ErrMiss) || err == nil {
		t.Fatalf("store error must not be reported as miss, got %v", err)
	}
}

func TestDefaultTTLApplied(t *testing.T) {
	store := newFakeStore()
	c, err := New(store, config.CacheConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key := c.Key("GET", "/price/product")
	if err := c.Set(context.Background(), key, []byte("x")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if store.ttls[key] != DefaultTTL {
		t.Fatalf("expected default ttl %v, got %v", DefaultTTL, store.ttls[key])
	}
}
