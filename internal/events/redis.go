package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the part of *redis.Client the publisher needs.
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publishes events as JSON on a Redis pub/sub channel.
type RedisPublisher struct {
	rdb     redisClient
	channel string
	now     func() time.Time
}

func NewRedisPublisher(rdb redisClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel, now: time.Now}
}

// NewRedisPublisherFromURL parses a redis:// URL and connects a client.
func NewRedisPublisherFromURL(ctx context.Context, url, channel string) (*RedisPublisher, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisPublisher(rdb, channel), rdb, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType, err)
	}
	return nil
}
