package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pongtourney/backend/internal/game"
)

// GetSettings returns the resolved match settings for a player
func GetSettings(svc SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.TrimSpace(c.Param("username"))
		c.JSON(http.StatusOK, svc.Resolve(c.Request.Context(), username))
	}
}

// SaveSettings validates and stores match settings for a player
func SaveSettings(svc SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.TrimSpace(c.Param("username"))
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username required"})
			return
		}

		cfg := game.DefaultMatchConfig()
		if err := c.ShouldBindJSON(&cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings"})
			return
		}
		if err := cfg.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svc.Save(c.Request.Context(), username, cfg); err != nil {
			log.Printf("[SETTINGS] Save failed for %s: %v", username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Settings saved", "settings": cfg})
	}
}
