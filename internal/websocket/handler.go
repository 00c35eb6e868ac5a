package websocket

import (
	"context"
	"net/http"
	"strings"
	"time"

	"stream-alerts/internal/events"
	"stream-alerts/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the given browser origins. "*" allows any
// origin; requests without an Origin header are not browsers and are allowed.
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// Connect upgrades GET /ws?types=follow,raid and streams matching events
func (h *Handler) Connect(c *gin.Context) {
	types, ok := parseTypes(c.Query("types"))
	if !ok {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("unknown event type in types", "INVALID_REQUEST"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.logger.Error("upgrade_failed", "", err)
		return
	}

	client := NewClient(conn, types)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	go client.WriteLoop(ctx)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// the relay is one-way; reads only detect disconnects and pongs
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}

	h.hub.Unregister(client)
}

func parseTypes(raw string) ([]events.Type, bool) {
	var types []events.Type
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, ok := events.ParseType(part)
		if !ok {
			return nil, false
		}
		types = append(types, t)
	}
	return types, true
}
