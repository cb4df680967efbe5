// Package watch pushes change notifications to connected websocket
// clients. The feed is read-only: clients observe edits, they cannot
// make them, so the single-mutator model of the store is preserved.
package watch

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Hub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

type Stats struct {
	WSClients int `json:"ws_clients"`
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*websocket.Conn)}
}

func (h *Hub) Add(id string, ws *websocket.Conn) {
	h.mu.Lock()
	h.clients[id] = ws
	h.mu.Unlock()
}

func (h *Hub) Remove(id string) {
	h.mu.Lock()
	ws, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if ok {
		_ = ws.Close()
	}
}

// BroadcastJSON fans v out to every connected client. Clients whose
// writes fail are dropped on the spot.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ws := range h.clients {
		_ = ws.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.clients, id)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{WSClients: len(h.clients)}
}
