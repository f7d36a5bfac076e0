package chat

import (
	"encoding/json"
	"sync/atomic"

	"chat-service/internal/logger"
)

// Hub owns the set of active connections and the presence count. All
// membership and count mutations happen inside Run's single goroutine,
// so concurrent connects and disconnects cannot lose updates and the
// count can never go negative: it is always len(clients). A connection
// that never registered (rejected handshake, failed upgrade) has no
// client to unregister and therefore cannot decrement anything.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	// mirror of len(clients) for the snapshot accessor
	count atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
	}
}

// ClientCount returns a snapshot of the presence count.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Run processes connect, disconnect and broadcast events until Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			h.announce(client, true)

		case client := <-h.unregister:
			// only a counted connection may decrement
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.count.Store(int64(len(h.clients)))
				h.announce(client, false)
			}

		case message := <-h.broadcast:
			h.deliver(message)

		case <-h.done:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.count.Store(0)
			return
		}
	}
}

// Stop shuts the hub down and hangs up every client.
func (h *Hub) Stop() {
	close(h.done)
}

// announce broadcasts a join/leave notice carrying the current count.
func (h *Hub) announce(client *Client, connected bool) {
	event := UserEvent{
		Type:         eventTypeUser,
		Name:         client.name,
		CurrentUsers: len(h.clients),
		Connected:    connected,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal user event", map[string]any{
			"error": err.Error(),
		})
		return
	}

	h.deliver(data)

	logger.Info("presence changed", map[string]any{
		"name":          client.name,
		"connected":     connected,
		"current_users": len(h.clients),
	})
}

// deliver fans a message out to every client, best-effort: a client
// whose send buffer is full is hung up rather than blocking the hub.
func (h *Hub) deliver(message []byte) {
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(h.clients, client)
			h.count.Store(int64(len(h.clients)))
		}
	}
}
