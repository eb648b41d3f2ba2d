package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pongtourney/backend/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are checked by middleware.WebSocketCORSCheck
	},
}

// Client represents a connected WebSocket client
type Client struct {
	hub     *Hub
	manager *game.Manager
	conn    *websocket.Conn
	token   string
	control game.Control // empty for spectators
	keys    *game.KeyControls
	send    chan []byte
}

// Hub maintains the set of active clients grouped by match token
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Message types
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Render broadcasts one frame to everyone watching the match.
func (h *Hub) Render(token string, s game.Snapshot) {
	h.BroadcastToMatch(token, map[string]interface{}{
		"type": "frame",
		"data": s,
	})
}

// Notify broadcasts an arbitrary message to the match room.
func (h *Hub) Notify(token string, message interface{}) {
	h.BroadcastToMatch(token, message)
}

// BroadcastToMatch sends a message to all clients in a match room
func (h *Hub) BroadcastToMatch(token string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[token] {
		select {
		case client.send <- data:
		default:
			// frames are dropped for slow clients; the next frame supersedes
		}
	}
}

// RoomSize returns the number of clients attached to a match.
func (h *Hub) RoomSize(token string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[token])
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error on match %s: %v", c.token, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error on match %s: %v", c.token, err)
				return
			}
		}
	}
}

// sendJSON queues a message for this client only
func (c *Client) sendJSON(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] Send buffer full on match %s, dropping message", c.token)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendJSON(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}
