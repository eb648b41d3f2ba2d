package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pongtourney/backend/internal/tournament"
)

// ListPlayers returns all registered aliases in ascending order
func ListPlayers(store TournamentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		players, err := store.ListPlayers(c.Request.Context())
		if err != nil {
			log.Printf("[DB] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, players)
	}
}

// AddPlayer registers a new alias
func AddPlayer(store TournamentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Alias string `json:"alias"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Alias required"})
			return
		}

		player, err := store.AddPlayer(c.Request.Context(), req.Alias)
		switch {
		case errors.Is(err, tournament.ErrAliasRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Alias required"})
		case errors.Is(err, tournament.ErrAliasExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Alias already exists"})
		case err != nil:
			log.Printf("[DB] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add player"})
		default:
			c.JSON(http.StatusCreated, gin.H{"message": "Player added", "player": player})
		}
	}
}

// DeleteAllPlayers removes every player and clears the queue
func DeleteAllPlayers(store TournamentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.DeleteAllPlayers(c.Request.Context()); err != nil {
			log.Printf("[DB] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "All players deleted"})
	}
}
