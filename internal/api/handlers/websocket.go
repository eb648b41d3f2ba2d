package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/pongtourney/backend/internal/game"
	"github.com/pongtourney/backend/internal/ws"
)

// HandleGameWebSocket handles real-time match communication
func HandleGameWebSocket(hub *ws.Hub, gm *game.Manager) gin.HandlerFunc {
	return ws.HandleWebSocket(hub, gm)
}
