package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks the websocket connections of open today-view pages so that a
// change made in one tab refreshes the others. Single-user app: one flat
// connection set, no rooms.
type Hub struct {
	connections map[*websocket.Conn]bool
	mutex       sync.Mutex
}

func NewHub() *Hub {
	return &Hub{connections: make(map[*websocket.Conn]bool)}
}

// Broadcast sends a task-changed event to every connected page.
func (h *Hub) Broadcast(event string, taskID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	message, err := json.Marshal(map[string]any{
		"event":   event,
		"task_id": taskID,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}

	for conn := range h.connections {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Failed to send WebSocket message: %v", err)
			delete(h.connections, conn)
			conn.Close()
		}
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // local single-user tool
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.Hub.mutex.Lock()
	h.Hub.connections[conn] = true
	h.Hub.mutex.Unlock()

	// Clients never send anything useful; the read loop just detects close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.Hub.mutex.Lock()
			delete(h.Hub.connections, conn)
			h.Hub.mutex.Unlock()
			conn.Close()
			return
		}
	}
}
