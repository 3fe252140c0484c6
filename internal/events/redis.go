package events

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel for an event type.
func Channel(eventType string) string {
	return "events:" + eventType
}

// RedisPublisher publishes events on Redis pub/sub channels.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher creates a publisher. A nil client publishes nothing.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, event PostEvent) error {
	if p.rdb == nil {
		return nil
	}
	data, err := encode(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel(event.Type), data).Err()
}

// Close is a no-op; the Redis client is shared and closed by its owner.
func (p *RedisPublisher) Close() error {
	return nil
}
