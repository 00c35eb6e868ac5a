package redis

import (
	"context"
	"fmt"

	"stream-alerts/internal/events"

	"github.com/redis/go-redis/v9"
)

// StreamPublisher appends payloads to a Redis stream named after the topic.
// The entry id assigned by XADD is the message id.
type StreamPublisher struct {
	client *redis.Client
	maxLen int64
}

func NewStreamPublisher(client *redis.Client, maxLen int) *StreamPublisher {
	return &StreamPublisher{client: client, maxLen: int64(maxLen)}
}

func (p *StreamPublisher) Publish(ctx context.Context, stream string, payload []byte) (string, error) {
	values := map[string]interface{}{"data": payload}
	if t, err := events.PeekType(payload); err == nil {
		values["type"] = string(t)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("redis xadd to %s: %w", stream, err)
	}
	return id, nil
}
