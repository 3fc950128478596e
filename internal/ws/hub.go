// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

// Package ws implements the real-time notification channel: a hub that fans
// notification records out to every connected browser client, and a registry
// that guarantees at most one hub exists per process.
package ws

import (
	"context"
	"sort"
	"sync"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/logging"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/metrics"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/models"
)

// Message types exchanged over the channel.
const (
	MessageTypeNotification = "notification"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

// Message is the framed payload sent over a client connection.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Delivery is fire-and-forget: a client whose send buffer is full is dropped,
// and nothing is retried or buffered beyond the broadcast channel.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new hub. The run loop must be started separately, either
// via Run or RunWithContext.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// detach removes a client from the hub. Unlike a bare send on Unregister it
// cannot block a client goroutine forever once the run loop has stopped.
func (h *Hub) detach(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// Run starts the hub loop without shutdown support. Intended for tests;
// supervised operation uses RunWithContext.
func (h *Hub) Run() {
	_ = h.RunWithContext(context.Background())
}

// RunWithContext starts the hub loop and blocks until the context is
// canceled, at which point all connected clients are closed and ctx.Err()
// is returned. Client lifecycle events are drained ahead of broadcasts so
// client state is consistent before a message fans out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Lifecycle events take priority over pending broadcasts.
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.SetConnectedClients(total)
	logging.Info().
		Uint64("client_id", client.id).
		Int("total_clients", total).
		Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.SetConnectedClients(total)
	logging.Info().
		Uint64("client_id", client.id).
		Int("total_clients", total).
		Msg("websocket client disconnected")
}

// BroadcastNotification queues a notification record for fan-out to all
// connected clients. A full broadcast channel drops the message with a log
// line; there is no at-least-once guarantee anywhere on this path.
func (h *Hub) BroadcastNotification(n *models.Notification) {
	message := Message{Type: MessageTypeNotification, Data: n}

	select {
	case h.broadcast <- message:
		metrics.IncNotificationsBroadcast()
	default:
		logging.Warn().Msg("broadcast channel full, dropping notification")
	}
}

// broadcastToClients sends a message to every connected client in client-id
// order. The stable order keeps delivery deterministic under test.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			// Send buffer full; the client is too slow to keep.
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.SetConnectedClients(len(h.clients))
		logging.Warn().Int("dropped", len(toRemove)).Msg("dropped slow websocket clients during broadcast")
	}
}

// shutdown closes every connected client and logs the reason. Closing done
// releases any client goroutine still trying to unregister.
func (h *Hub) shutdown(ctx context.Context) {
	close(h.done)

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.SetConnectedClients(0)

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", len(clients)).
		Msg("websocket hub stopped")
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
