package websocket

import (
	"context"

	"stream-alerts/internal/events"

	"go.uber.org/zap"
)

// Bridge feeds payloads from the sink's topic into the hub
type Bridge struct {
	subscriber events.Subscriber
	hub        *Hub
}

func NewBridge(subscriber events.Subscriber, hub *Hub) *Bridge {
	return &Bridge{subscriber: subscriber, hub: hub}
}

// Run blocks until ctx is done or the subscription fails
func (b *Bridge) Run(ctx context.Context, topic string) error {
	return b.subscriber.Subscribe(ctx, []string{topic}, func(_ string, payload []byte) {
		b.Forward(payload)
	})
}

// Forward broadcasts one payload unchanged. Payloads that do not decode as
// a known envelope are dropped.
func (b *Bridge) Forward(payload []byte) {
	e, err := events.Decode(payload)
	if err != nil {
		b.hub.logger.Warn("payload_skipped", "", zap.Error(err))
		return
	}
	b.hub.Broadcast(e.Type(), payload)
}
