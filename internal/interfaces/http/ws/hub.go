// Package ws pushes dashboard snapshots to connected browsers over
// WebSocket.
package ws

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/analytics"
)

// envelope is the wire frame sent to dashboard clients
type envelope struct {
	Type    string      `json:"type"`
	SentAt  time.Time   `json:"sent_at"`
	Payload interface{} `json:"payload"`
}

// Hub fans dashboard snapshots out to every connected client. Clients
// register on upgrade and unregister when their connection drops.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	logger     *zap.Logger
}

// NewHub creates a new Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes register, unregister, and broadcast events until Stop
// is called. Must run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Debug("dashboard client connected",
				zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug("dashboard client disconnected",
					zap.Int("clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it
					delete(h.clients, client)
					close(client.send)
				}
			}

		case <-h.done:
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Stop disconnects every client and stops the run loop
func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast pushes a dashboard snapshot to every connected client.
// Implements the dashboard service's broadcaster contract.
func (h *Hub) Broadcast(snapshot *analytics.Snapshot) {
	message, err := json.Marshal(envelope{
		Type:    "dashboard_snapshot",
		SentAt:  time.Now(),
		Payload: snapshot,
	})
	if err != nil {
		h.logger.Error("failed to encode dashboard snapshot", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}
