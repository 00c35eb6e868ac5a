package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Publisher sends payloads with PUBLISH. Redis does not assign ids to pub/sub
// messages, so every publish gets a generated urn:uuid.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, channel string, payload []byte) (string, error) {
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return "", fmt.Errorf("redis publish to %s: %w", channel, err)
	}
	return "urn:uuid:" + uuid.New().String(), nil
}
