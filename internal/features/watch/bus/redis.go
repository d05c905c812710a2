package bus

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisPublisher appends change events to a Redis stream. Streams rather than
// plain pub/sub: the watcher reads through a consumer group, so a change
// survives the watcher being down and is delivered at least once.
type redisPublisher struct {
	client *redis.Client
	stream string
}

func NewRedisPublisher(client *redis.Client) Publisher {
	return &redisPublisher{client: client, stream: Stream}
}

func (p *redisPublisher) Publish(ctx context.Context, ev ChangeEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"event_id":   ev.EventID,
			"address":    strings.ToLower(ev.Address),
			"channel_id": ev.ChannelID,
			"type":       string(ev.Type),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish watch change: %w", err)
	}
	return nil
}
