package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Change kinds carried on the persistent-entity channel.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// Ephemeral frame types. These are broadcast-only: never stored, never
// replayed to late subscribers.
const (
	FrameChange       = "change"
	FrameTyping       = "typing"
	FramePresence     = "presence"
	FrameIncomingCall = "incoming_call"
	FramePing         = "ping"
	FramePong         = "pong"
)

// ChangeEvent is one persistent-entity mutation fanned out to the parties
// that can see it.
type ChangeEvent struct {
	Collection string      `json:"collection"`
	Kind       string      `json:"kind"`
	EntityID   string      `json:"entity_id"`
	Entity     interface{} `json:"entity,omitempty"`
}

// Frame is the wire envelope for every websocket message.
type Frame struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// TypingSignal is the ephemeral typing frame payload.
type TypingSignal struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	Typing         bool   `json:"typing"`
}

// Hub manages all active websocket connections and fans entity change
// events and ephemeral frames out to them.
type Hub struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the hub's registration loop in a goroutine.
func (h *Hub) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-h.Register:
				h.mutex.Lock()
				// One connection per user; a reconnect replaces the old one.
				if prev, ok := h.clients[client.UserID]; ok {
					close(prev.Send)
				}
				h.clients[client.UserID] = client
				h.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)

			case client := <-h.Unregister:
				h.mutex.Lock()
				if current, ok := h.clients[client.UserID]; ok && current == client {
					delete(h.clients, client.UserID)
					close(client.Send)
				}
				h.mutex.Unlock()
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Publish fans one entity change event out to the given recipients.
func (h *Hub) Publish(ev ChangeEvent, recipients ...string) {
	frame, err := json.Marshal(Frame{
		Type:      FrameChange,
		Data:      ev,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("Failed to marshal change event: %v", err)
		return
	}

	for _, userID := range recipients {
		h.send(userID, frame)
	}
}

// Ephemeral sends a transient frame (typing, presence, incoming call) to
// the given recipients. Nothing is persisted; offline recipients miss it.
func (h *Hub) Ephemeral(frameType string, data interface{}, recipients ...string) {
	frame, err := json.Marshal(Frame{
		Type:      frameType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("Failed to marshal %s frame: %v", frameType, err)
		return
	}

	for _, userID := range recipients {
		h.send(userID, frame)
	}
}

// Online reports whether the user currently has a connection.
func (h *Hub) Online(userID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *Hub) send(userID string, frame []byte) {
	h.mutex.RLock()
	client, ok := h.clients[userID]
	h.mutex.RUnlock()
	if !ok {
		return
	}

	select {
	case client.Send <- frame:
	default:
		// Slow consumer; drop the connection rather than block the hub.
		h.mutex.Lock()
		if current, ok := h.clients[userID]; ok && current == client {
			delete(h.clients, userID)
			close(client.Send)
		}
		h.mutex.Unlock()
	}
}
