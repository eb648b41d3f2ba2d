package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pongtourney/backend/internal/game"
	"github.com/redis/go-redis/v9"
)

// StartEventSubscriber subscribes to the game_events channel and broadcasts
// incoming events to match rooms.
func StartEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, game.EventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Println("[WS] game_events subscriber started")
		for {
			select {
			case <-ctx.Done():
				log.Println("[WS] game_events subscriber stopping")
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				hub.HandleEvent([]byte(msg.Payload))
			}
		}
	}()
}

// HandleEvent decodes one event payload and delivers it to its match room.
func (h *Hub) HandleEvent(raw []byte) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return
	}

	typeStr, _ := payload["type"].(string)
	token, _ := payload["match_token"].(string)
	if token == "" {
		log.Printf("[WS] event %s without match token", typeStr)
		return
	}

	switch typeStr {
	case "match_finished":
		log.Printf("[WS] broadcasting game_over for match %s (room_size=%d)", token, h.RoomSize(token))
		h.BroadcastToMatch(token, game.GameOverMessage(payload))

	default:
		log.Printf("[WS] unknown event type: %s", typeStr)
	}
}
