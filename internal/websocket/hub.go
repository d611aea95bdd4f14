package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub fans server events out to every connected client. Deliveries are
// best-effort: a client whose write fails is dropped and must reconnect.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	log     zerolog.Logger
}

// NewHub creates a new Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		log:     log.With().Str("component", "ws_hub").Logger(),
	}
}

// Register adds a connection to the broadcast set.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
	h.log.Debug().Int("clients", len(h.clients)).Msg("Client connected")
}

// Unregister removes a connection. Safe to call twice.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	h.log.Debug().Int("clients", len(h.clients)).Msg("Client disconnected")
}

// Publish sends an event message to every connected client.
func (h *Hub) Publish(event Event, payload any) {
	msg := EventMessage{Event: event, Payload: payload}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := WriteTyped(conn, msg); err != nil {
			h.log.Warn().Err(err).Msg("Dropping unwritable client")
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
