package websocket

import (
	"context"
	"sync"
	"time"

	"stream-alerts/internal/events"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 256
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
)

// Client represents a WebSocket relay connection
type Client struct {
	ID    string          // Unique client ID
	Conn  *websocket.Conn // WebSocket connection
	Send  chan []byte     // Outbound message channel
	types map[events.Type]struct{}
	mu    sync.Mutex // Serializes conn writes
}

// NewClient creates a client receiving the given event types. No types means
// every event.
func NewClient(conn *websocket.Conn, types []events.Type) *Client {
	c := &Client{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}
	if len(types) > 0 {
		c.types = make(map[events.Type]struct{}, len(types))
		for _, t := range types {
			c.types[t] = struct{}{}
		}
	}
	return c
}

// Wants reports whether the client filter accepts events of type t
func (c *Client) Wants(t events.Type) bool {
	if c.types == nil {
		return true
	}
	_, ok := c.types[t]
	return ok
}

// WriteLoop handles outbound messages from the Send channel
func (c *Client) WriteLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.close()
			return
		case msg, ok := <-c.Send:
			if !ok {
				c.close()
				return
			}
			if err := c.write(websocket.TextMessage, msg); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(messageType, data)
}

func (c *Client) close() {
	c.mu.Lock()
	_ = c.Conn.Close()
	c.mu.Unlock()
}

// SendMessage queues a message without blocking. It reports false when the
// client buffer is full and the message was dropped.
func (c *Client) SendMessage(msg []byte) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}
