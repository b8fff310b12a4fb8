package redis

import (
	"testing"

	"github.com/sushka2023/sushka-shop-backend/pkg/config"
)

func TestBuildKeyNamespacing(t *testing.T) {
	c := &Client{}

	if got := c.CacheKey("GET", "/product/all"); got != "sushka:cache:GET:/product/all" {
		t.Fatalf("unexpected cache key %q", got)
	}
	if got := c.LockKey("cron"); got != "sushka:lock:cron" {
		t.Fatalf("unexpected lock key %q", got)
	}
	if got := c.AccessSessionKey("abc"); got != "sushka:session:access:abc" {
		t.Fatalf("unexpected session key %q", got)
	}
	if got := c.CacheKey("", "x"); got != "sushka:cache:x" {
		t.Fatalf("empty parts must be skipped, got %q", got)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address is set")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.PoolSize != 5 {
		t.Fatalf("pool size fallback not applied, got %d", opts.PoolSize)
	}
}
