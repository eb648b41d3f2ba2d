package ws

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pongtourney/backend/internal/game"
)

// InputData is the payload of an "input" message.
type InputData struct {
	Side     string  `json:"side"`
	Velocity float64 `json:"velocity"`
}

// KeyData is the payload of a "key" message.
type KeyData struct {
	Key  string `json:"key"`
	Down bool   `json:"down"`
}

// Run processes client registration until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, exists := h.rooms[client.token]; !exists {
				h.rooms[client.token] = make(map[*Client]bool)
			}
			h.rooms[client.token][client] = true
			size := len(h.rooms[client.token])
			h.mu.Unlock()

			role := string(client.control)
			if role == "" {
				role = "spectator"
			}
			log.Printf("[WS] Client (%s) connected to match %s (room_size=%d)", role, client.token, size)

		case client := <-h.unregister:
			h.mu.Lock()
			if room, exists := h.rooms[client.token]; exists && room[client] {
				delete(room, client)
				if len(room) == 0 {
					delete(h.rooms, client.token)
				}
				close(client.send)
				log.Printf("[WS] Client disconnected from match %s", client.token)
			}
			h.mu.Unlock()
		}
	}
}

// HandleWebSocket attaches a client to a hosted match. A valid control token
// in ?ct= lets the client steer its paddles; without one it only watches.
func HandleWebSocket(hub *Hub, gm *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		m, err := gm.Get(token)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
			return
		}

		var control game.Control
		if ct := c.Query("ct"); ct != "" {
			claims, err := gm.Tokens().Parse(ct)
			if err != nil || claims.Match != token {
				c.JSON(http.StatusForbidden, gin.H{"error": "Invalid control token"})
				return
			}
			control = claims.Control
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			hub:     hub,
			manager: gm,
			conn:    conn,
			token:   token,
			control: control,
			keys:    game.NewKeyControls(m.Config.PaddleSpeed),
			send:    make(chan []byte, 256),
		}

		client.sendJSON(map[string]interface{}{"type": "match_state", "data": m.View()})
		hub.register <- client

		go client.writePump()
		go client.readPump()

		if control != "" {
			if err := gm.Activate(token); err != nil {
				log.Printf("[WS] Failed to start match %s: %v", token, err)
			}
		}
	}
}

// readPump reads messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close on match %s: %v", c.token, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage processes incoming match messages
func (c *Client) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "input":
		var data InputData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid input data")
			return
		}
		side, ok := game.ParseSide(data.Side)
		if !ok {
			c.sendError("Invalid side")
			return
		}
		c.steer([]game.Input{{Side: side, Velocity: data.Velocity}})

	case "key":
		var data KeyData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid key data")
			return
		}
		if data.Down {
			c.steer(c.keys.KeyDown(data.Key))
		} else {
			c.steer(c.keys.KeyUp(data.Key))
		}

	case "get_state":
		v, err := c.manager.Lookup(context.Background(), c.token)
		if err != nil {
			c.sendError("Match not found")
			return
		}
		c.sendJSON(map[string]interface{}{"type": "match_state", "data": v})

	default:
		c.sendError("Unknown message type")
	}
}

// steer forwards the inputs this client is allowed to send.
func (c *Client) steer(inputs []game.Input) {
	if c.control == "" {
		if len(inputs) > 0 {
			c.sendError("Spectators cannot control paddles")
		}
		return
	}
	limit := c.keys.Speed()
	for _, in := range inputs {
		if !c.control.Allows(in.Side) {
			continue
		}
		in.Velocity = clampVelocity(in.Velocity, limit)
		if err := c.manager.SendInput(c.token, in); err != nil {
			c.sendError(err.Error())
			return
		}
	}
}

func clampVelocity(v, limit float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-limit, math.Min(limit, v))
}
