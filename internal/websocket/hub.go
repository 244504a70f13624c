// Package websocket pushes family-scoped ledger events to connected
// browsers.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukerupert/cointrack/internal/events"
)

// Message is the frame written to clients.
type Message struct {
	Type  string       `json:"type"`
	Event events.Event `json:"event"`
}

// Hub maintains the set of active WebSocket clients and routes events to
// the clients of the family they belong to.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends e to every client in e's family, or only to the acting
// member when e has no family. It returns the number of clients reached.
func (h *Hub) Broadcast(e events.Event) (int, error) {
	data, err := json.Marshal(Message{Type: e.Type, Event: e})
	if err != nil {
		return 0, fmt.Errorf("marshal broadcast: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for c := range h.clients {
		if !c.wants(e) {
			continue
		}
		select {
		case c.send <- data:
			sent++
		default:
			h.logger.Debug("client buffer full, dropping event", "user_id", c.userID, "event_type", e.Type)
		}
	}
	return sent, nil
}

func (h *Hub) Name() string { return "websocket" }

// Deliver makes the hub an events.Sink.
func (h *Hub) Deliver(_ context.Context, e events.Event) error {
	_, err := h.Broadcast(e)
	return err
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
