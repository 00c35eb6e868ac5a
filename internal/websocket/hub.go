package websocket

import (
	"context"
	"sync"

	"stream-alerts/internal/events"
	"stream-alerts/internal/metrics"
)

// Hub tracks relay clients and fans topic payloads out to them
type Hub struct {
	mu sync.RWMutex

	clients map[string]*Client

	// register and unregister share one channel so they apply in call order
	membership chan membershipChange

	logger *Logger
}

type membershipChange struct {
	client *Client
	join   bool
}

func NewHub(logger *Logger) *Hub {
	if logger == nil {
		logger = NewLogger(nil)
	}
	return &Hub{
		clients:    make(map[string]*Client),
		membership: make(chan membershipChange, 256),
		logger:     logger,
	}
}

// Run starts the hub's event loop. Remaining clients are disconnected when
// ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.removeAll()
			return
		case change := <-h.membership:
			if change.join {
				h.addClient(change.client)
			} else {
				h.removeClient(change.client)
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.membership <- membershipChange{client: client, join: true}
}

func (h *Hub) Unregister(client *Client) {
	h.membership <- membershipChange{client: client}
}

// Broadcast sends payload to every client whose filter accepts t
func (h *Hub) Broadcast(t events.Type, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.Wants(t) {
			continue
		}
		if !c.SendMessage(payload) {
			metrics.RelayDropped.Inc()
			h.logger.Warn("message_dropped", c.ID)
		}
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	n := len(h.clients)
	h.mu.Unlock()

	metrics.RelayClients.Set(float64(n))
	h.logger.Info("client_registered", client.ID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
	n := len(h.clients)
	h.mu.Unlock()

	metrics.RelayClients.Set(float64(n))
	h.logger.Info("client_unregistered", client.ID)
}

func (h *Hub) removeAll() {
	h.mu.Lock()
	for id, c := range h.clients {
		close(c.Send)
		delete(h.clients, id)
	}
	h.mu.Unlock()
	metrics.RelayClients.Set(0)
}
