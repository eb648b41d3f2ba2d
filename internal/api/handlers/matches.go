package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pongtourney/backend/internal/tournament"
)

// ListMatches returns recorded matches, oldest first
func ListMatches(store TournamentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		matches, err := store.ListMatches(c.Request.Context())
		if err != nil {
			log.Printf("[DB] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, matches)
	}
}

// RecordMatch stores a match result between registered players
func RecordMatch(store TournamentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Player1 string `json:"player1"`
			Player2 string `json:"player2"`
			Winner  string `json:"winner"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Player1 == "" || req.Player2 == "" || req.Winner == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing players or winner"})
			return
		}

		err := store.RecordMatch(c.Request.Context(), req.Player1, req.Player2, req.Winner)
		if errors.Is(err, tournament.ErrUnknownPlayer) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player(s)"})
			return
		}
		if err != nil {
			log.Printf("[DB] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record match"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Match recorded"})
	}
}

// DeleteAllMatches removes every recorded match
func DeleteAllMatches(store TournamentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.DeleteAllMatches(c.Request.Context()); err != nil {
			log.Printf("[DB] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "All matches deleted"})
	}
}
