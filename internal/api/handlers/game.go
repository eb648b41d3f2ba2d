package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pongtourney/backend/internal/game"
	"github.com/pongtourney/backend/internal/tournament"
)

// StartGame creates a hosted match. Players default to the head of the queue.
func StartGame(store TournamentStore, host MatchHost) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Player1 string `json:"player1"`
			Player2 string `json:"player2"`
		}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}
		p1 := strings.TrimSpace(req.Player1)
		p2 := strings.TrimSpace(req.Player2)
		named := p1 != "" || p2 != ""

		if p1 == "" || p2 == "" {
			q1, q2, err := store.NextPair(c.Request.Context())
			if errors.Is(err, tournament.ErrNotEnoughPlayers) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "At least two players are required"})
				return
			}
			if err != nil {
				log.Printf("[DB] %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load queue"})
				return
			}
			if p1 == "" {
				if q1 != p2 {
					p1 = q1
				} else {
					p1 = q2
				}
			}
			if p2 == "" {
				if q1 != p1 {
					p2 = q1
				} else {
					p2 = q2
				}
			}
		}

		if named {
			ok, err := registered(c, store, p1, p2)
			if err != nil {
				log.Printf("[DB] %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
				return
			}
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "One or more players do not exist"})
				return
			}
		}

		created, err := host.Create(c.Request.Context(), p1, p2)
		if err != nil {
			log.Printf("[MATCH] Create failed for %s vs %s: %v", p1, p2, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"token":          created.Match.Token,
			"match":          created.Match,
			"control_tokens": created.ControlTokens,
			"ws_url":         "/api/v1/game/" + created.Match.Token + "/ws",
		})
	}
}

// registered reports whether every alias is a registered player.
func registered(c *gin.Context, store TournamentStore, aliases ...string) (bool, error) {
	players, err := store.ListPlayers(c.Request.Context())
	if err != nil {
		return false, err
	}
	known := make(map[string]bool, len(players))
	for _, p := range players {
		known[p] = true
	}
	for _, a := range aliases {
		if !known[a] {
			return false, nil
		}
	}
	return true, nil
}

// GetGameState returns the latest snapshot of a hosted match
func GetGameState(host MatchHost) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		view, err := host.Lookup(c.Request.Context(), token)
		if errors.Is(err, game.ErrMatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
			return
		}
		if err != nil {
			log.Printf("[MATCH] Lookup %s failed: %v", token, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load match"})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
