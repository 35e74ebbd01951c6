package booking

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Hub fans booking notifications out to websocket subscribers grouped by key.
type Hub struct {
	upgrader    websocket.Upgrader
	mu          sync.Mutex
	subscribers map[string]map[*websocket.Conn]struct{}
}

// NewHub accepts upgrades from the given origins. An empty list or "*"
// accepts any origin.
func NewHub(origins []string) *Hub {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
		subscribers: make(map[string]map[*websocket.Conn]struct{}),
	}
}

// Serve upgrades the request and keeps the subscription open until the
// client disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, key string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed for %s: %v", key, err)
		return
	}

	h.mu.Lock()
	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[*websocket.Conn]struct{})
	}
	h.subscribers[key][conn] = struct{}{}
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(key, conn)
}

func (h *Hub) Broadcast(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("broadcast %s: %v", key, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.subscribers[key] {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.subscribers[key], conn)
		}
	}
	if len(h.subscribers[key]) == 0 {
		delete(h.subscribers, key)
	}
}

// Subscribers reports how many connections watch key.
func (h *Hub) Subscribers(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[key])
}

func (h *Hub) remove(key string, conn *websocket.Conn) {
	h.mu.Lock()
	if conns, ok := h.subscribers[key]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subscribers, key)
		}
	}
	h.mu.Unlock()
	conn.Close()
}
