// Package nats publishes event envelopes over core NATS and relays them back
// out for the websocket feed.
package nats

import (
	"context"
	"fmt"
	"time"

	"stream-alerts/pkg/logger"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// MsgIDHeader carries the message id. JetStream uses the same header for
// de-duplication when the subject is captured by a stream.
const MsgIDHeader = nats.MsgIdHdr

// Config holds NATS client configuration.
type Config struct {
	// URL is the NATS server URL (e.g., "nats://localhost:4222").
	URL string

	// Name is the client name for connection identification.
	Name string

	// MaxReconnects is the maximum number of reconnection attempts.
	// Use -1 for infinite reconnects.
	MaxReconnects int

	ReconnectWait time.Duration
	Timeout       time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(url string) Config {
	if url == "" {
		url = nats.DefaultURL
	}
	return Config{
		URL:           url,
		Name:          "stream-alerts",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

// Client implements events.Publisher and events.Subscriber over one NATS
// connection.
type Client struct {
	conn *nats.Conn
}

func NewClient(cfg Config, l *logger.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil && l != nil {
				l.Warnf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if l != nil {
				l.Infof("NATS reconnected")
			}
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Client{conn: conn}, nil
}

func newMsg(subject string, payload []byte) *nats.Msg {
	msg := nats.NewMsg(subject)
	msg.Data = payload
	msg.Header.Set(MsgIDHeader, "urn:uuid:"+uuid.New().String())
	return msg
}

// Publish sends payload to subject and returns the generated message id.
func (c *Client) Publish(ctx context.Context, subject string, payload []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	msg := newMsg(subject, payload)
	if err := c.conn.PublishMsg(msg); err != nil {
		return "", fmt.Errorf("nats publish to %s: %w", subject, err)
	}
	return msg.Header.Get(MsgIDHeader), nil
}

// Subscribe delivers messages on subjects to handler until ctx is done.
func (c *Client) Subscribe(ctx context.Context, subjects []string, handler func(subject string, payload []byte)) error {
	subs := make([]*nats.Subscription, 0, len(subjects))
	defer func() {
		for _, sub := range subs {
			_ = sub.Unsubscribe()
		}
	}()

	for _, subject := range subjects {
		sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
			handler(msg.Subject, msg.Data)
		})
		if err != nil {
			return fmt.Errorf("nats subscribe to %s: %w", subject, err)
		}
		subs = append(subs, sub)
	}

	<-ctx.Done()
	return ctx.Err()
}

// IsConnected returns true if connected to NATS.
func (c *Client) IsConnected() bool {
	return c.conn.IsConnected()
}

// Close drains in-flight messages and closes the connection.
func (c *Client) Close() error {
	return c.conn.Drain()
}
