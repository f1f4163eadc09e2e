package redis

import (
	"testing"
	"time"

	"github.com/hospicare/hospicare-backend/pkg/config"
)

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address provided")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	cfg := config.RedisConfig{
		URL:          "redis://:pw@localhost:6380/2",
		PoolSize:     12,
		MinIdleConns: 3,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 4 * time.Second,
	}
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.PoolSize != 12 || opts.MinIdleConns != 3 {
		t.Fatalf("pool settings not applied: %+v", opts)
	}
}

func TestKeyBuilders(t *testing.T) {
	c := &Client{}
	if got := c.IdempotencyKey("user|POST|/api/v1/courses", "abc"); got != "hc:idempotency:user|POST|/api/v1/courses:abc" {
		t.Fatalf("unexpected idempotency key %q", got)
	}
	if got := c.CounterKey("transitions"); got != "hc:counter:transitions" {
		t.Fatalf("unexpected counter key %q", got)
	}
}
