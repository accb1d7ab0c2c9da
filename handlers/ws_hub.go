// handlers/ws_hub.go
package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// dashboard and backend share an origin behind the proxy
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHub fans broadcast events out to every connected dashboard
// client. Clients that fail a write are dropped; they reconnect on
// their own.
type WSHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	log     *zap.Logger
}

func NewWSHub(log *zap.Logger) *WSHub {
	return &WSHub{clients: make(map[*websocket.Conn]bool), log: log}
}

// ServeWS upgrades the connection and parks it in the client set.
func (h *WSHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	// The welcome frame goes out before the connection is visible to
	// Push; gorilla/websocket allows only one concurrent writer.
	if err := conn.WriteJSON(map[string]string{
		"type":    "WELCOME",
		"message": "Connected to WebSocket server",
	}); err != nil {
		conn.Close()
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.log.Info("websocket client connected")

	// reader loop exists only to detect disconnects
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleBroadcast accepts a JSON event and pushes it to all clients.
func (h *WSHub) HandleBroadcast(w http.ResponseWriter, r *http.Request) {
	var payload json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFailure(w, "invalid JSON")
		return
	}
	h.Push(payload)
	writeSuccess(w, "Broadcast successful", nil)
}

// Push writes raw JSON to every connected client.
func (h *WSHub) Push(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *WSHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.Close()
	delete(h.clients, conn)
	h.log.Info("websocket client disconnected")
}
