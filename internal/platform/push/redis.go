package push

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yoman-app/yoman-api/internal/metrics"
)

// ListPusher is the part of the go-redis client RedisPublisher needs.
type ListPusher interface {
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
}

// RedisPublisher pushes messages onto a Redis list. The delivery worker pops
// from the other end.
type RedisPublisher struct {
	client ListPusher
	key    string
}

// NewRedisPublisher creates a publisher for the list at key.
func NewRedisPublisher(client ListPusher, key string) *RedisPublisher {
	return &RedisPublisher{client: client, key: key}
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, msg Message) error {
	body, err := msg.encode()
	if err != nil {
		return err
	}
	start := time.Now()
	err = p.client.LPush(ctx, p.key, body).Err()
	metrics.ObserveNetworkRequest("redis", "push", start, err)
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	return nil
}

// Close implements Publisher. The Redis client is owned by the caller.
func (p *RedisPublisher) Close() error { return nil }
