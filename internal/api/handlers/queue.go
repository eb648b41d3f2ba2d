package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pongtourney/backend/internal/tournament"
)

// GetQueue returns queued aliases in play order
func GetQueue(store TournamentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		queue, err := store.GetQueue(c.Request.Context())
		if err != nil {
			log.Printf("[DB] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, queue)
	}
}

// UpdateQueue replaces the queue with the posted aliases
func UpdateQueue(store TournamentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Queue *[]string `json:"queue"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Queue == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Queue must be array of aliases"})
			return
		}

		aliases := make([]string, 0, len(*req.Queue))
		for _, a := range *req.Queue {
			a = strings.TrimSpace(a)
			if a == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Queue must be array of aliases"})
				return
			}
			aliases = append(aliases, a)
		}

		err := store.ReplaceQueue(c.Request.Context(), aliases)
		if errors.Is(err, tournament.ErrQueueDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Each player may appear in the queue only once"})
			return
		}
		if err != nil {
			log.Printf("[DB] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update queue"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Queue updated"})
	}
}

// RotateQueue sends the two players at the head of the queue to the back
func RotateQueue(store TournamentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		queue, err := store.RotateQueue(c.Request.Context())
		if err != nil {
			log.Printf("[DB] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update queue"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Queue rotated", "queue": queue})
	}
}
