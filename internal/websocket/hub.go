package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"fleet-backend/internal/auth"
)

// Hub maintains active WebSocket connections and broadcasts messages
type Hub struct {
	// Registered clients (role:id -> Client). Admin and driver ids come from
	// different tables, so the role is part of the key.
	clients map[string]*Client

	// Outbound messages addressed to one client
	broadcast chan *Message

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// Message represents a message to broadcast to a specific user
type Message struct {
	ClientKey string
	Data      interface{}
}

// Event is the envelope every pushed message uses.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func ClientKey(role auth.Role, id int64) string {
	return fmt.Sprintf("%s:%d", role, id)
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.Key]; ok {
				old.stop()
			}
			h.clients[client.Key] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Printf("✅ [WEBSOCKET] Client CONNECTED")
			log.Printf("   Client: %s", client.Key)
			log.Printf("   Total connected clients: %d", total)
			log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.Key]; ok && current == client {
				delete(h.clients, client.Key)
				client.stop()
				log.Printf("🔴 [WEBSOCKET] Client DISCONNECTED: %s (remaining: %d)", client.Key, len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message.Data)
			if err != nil {
				log.Printf("❌ Failed to marshal message: %v", err)
				continue
			}
			h.mu.Lock()
			if client, ok := h.clients[message.ClientKey]; ok {
				select {
				case client.send <- data:
				default:
					// Client buffer full, disconnect
					client.stop()
					delete(h.clients, client.Key)
					log.Printf("⚠️ Client buffer full, disconnecting: %s", client.Key)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToUser queues a message for one connected client.
func (h *Hub) BroadcastToUser(role auth.Role, id int64, data interface{}) {
	h.broadcast <- &Message{
		ClientKey: ClientKey(role, id),
		Data:      data,
	}
}

// BroadcastToRole sends a message to all users with a specific role
func (h *Hub) BroadcastToRole(role auth.Role, data interface{}) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		log.Printf("❌ Failed to marshal broadcast message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.Role == role {
			select {
			case client.send <- dataBytes:
			default:
			}
		}
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsUserConnected checks if a user is currently connected
func (h *Hub) IsUserConnected(role auth.Role, id int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[ClientKey(role, id)]
	return ok
}
