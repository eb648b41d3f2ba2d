package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pongtourney/backend/internal/admin"
	"github.com/pongtourney/backend/internal/config"
)

// AdminTokenHeader carries the plain admin token on destructive routes.
const AdminTokenHeader = "X-Admin-Token"

// AdminGuard protects destructive routes with the bcrypt-hashed admin token.
// Without a configured hash the guard is open outside production and closed
// in production.
func AdminGuard(cfg *config.Config) gin.HandlerFunc {
	if cfg.AdminTokenHash == "" {
		if cfg.Environment == "production" {
			log.Println("[ADMIN] ADMIN_TOKEN_HASH not set; destructive routes disabled")
			return func(c *gin.Context) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access not configured"})
			}
		}
		log.Println("[ADMIN] ADMIN_TOKEN_HASH not set; admin guard disabled in development")
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		token := c.GetHeader(AdminTokenHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin token required"})
			return
		}
		if !admin.VerifyToken(cfg.AdminTokenHash, token) {
			log.Printf("[ADMIN] Invalid admin token from %s on %s", c.ClientIP(), c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid admin token"})
			return
		}
		c.Next()
	}
}

// AdminAudit records each guarded request in the admin audit log once the
// handler has run.
func AdminAudit(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		details := map[string]interface{}{"status": c.Writer.Status()}
		success := c.Writer.Status() < http.StatusBadRequest
		admin.LogAction(c.Request.Context(), db, c.ClientIP(), c.FullPath(), c.Request.Method, details, success)
	}
}
