package events

import "context"

// Publisher is the outbound sink. Publish returns the message id assigned to
// the payload. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// Subscriber blocks delivering payloads published on topics until ctx is
// cancelled or the underlying connection fails.
type Subscriber interface {
	Subscribe(ctx context.Context, topics []string, handler func(topic string, payload []byte)) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, topic string, payload []byte) (string, error)

func (f PublisherFunc) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	return f(ctx, topic, payload)
}
