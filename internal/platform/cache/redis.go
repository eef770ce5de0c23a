package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the subset of the go-redis command set the cache uses.
// *redis.Client satisfies it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Connect parses a redis:// URL, opens a client and pings it.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Deduper runs a function at most once per key within a TTL.
type Deduper struct {
	client Client
	prefix string
}

// NewDeduper creates a Deduper whose keys are namespaced by prefix.
func NewDeduper(client Client, prefix string) *Deduper {
	return &Deduper{client: client, prefix: prefix}
}

// Once runs fn if key has not been claimed within ttl. It reports whether fn
// ran. When fn fails the claim is released so a later attempt can retry.
func (d *Deduper) Once(ctx context.Context, key string, ttl time.Duration, fn func() error) (bool, error) {
	full := d.prefix + key
	ok, err := d.client.SetNX(ctx, full, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", full, err)
	}
	if !ok {
		return false, nil
	}
	if err := fn(); err != nil {
		_ = d.client.Del(ctx, full).Err()
		return true, err
	}
	return true, nil
}
