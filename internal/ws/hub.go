package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans attempt state updates out to connected clients, keyed by
// attempt id.
type Hub struct {
	mu       sync.RWMutex
	attempts map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		attempts: make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(attemptID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.attempts[attemptID] == nil {
		h.attempts[attemptID] = make(map[*websocket.Conn]bool)
	}
	h.attempts[attemptID][conn] = true
	log.Printf("ws: client connected to attempt %s (total: %d)", attemptID, len(h.attempts[attemptID]))
}

func (h *Hub) RemoveConnection(attemptID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.attempts[attemptID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.attempts, attemptID)
		}
		log.Printf("ws: client disconnected from attempt %s", attemptID)
	}
}

// Broadcast sends message to every client watching attemptID, dropping
// connections whose writes fail.
func (h *Hub) Broadcast(attemptID string, message WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.attempts[attemptID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
}
