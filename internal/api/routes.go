package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pongtourney/backend/internal/api/handlers"
	"github.com/pongtourney/backend/internal/config"
	"github.com/pongtourney/backend/internal/game"
	"github.com/pongtourney/backend/internal/middleware"
	"github.com/pongtourney/backend/internal/settings"
	"github.com/pongtourney/backend/internal/tournament"
	"github.com/pongtourney/backend/internal/ws"
)

// Deps are the services the routes are wired to.
type Deps struct {
	DB       *sqlx.DB
	Store    *tournament.Store
	Settings *settings.Resolver
	Matches  *game.Manager
	Hub      *ws.Hub
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, deps Deps, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	adminOnly := []gin.HandlerFunc{middleware.AdminGuard(cfg), middleware.AdminAudit(deps.DB)}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		players := v1.Group("/players")
		{
			players.GET("", handlers.ListPlayers(deps.Store))
			players.POST("", handlers.AddPlayer(deps.Store))
			players.DELETE("", append(adminOnly, handlers.DeleteAllPlayers(deps.Store))...)
		}

		matches := v1.Group("/matches")
		{
			matches.GET("", handlers.ListMatches(deps.Store))
			matches.POST("", handlers.RecordMatch(deps.Store))
			matches.DELETE("", append(adminOnly, handlers.DeleteAllMatches(deps.Store))...)
		}

		queue := v1.Group("/queue")
		{
			queue.GET("", handlers.GetQueue(deps.Store))
			queue.POST("", handlers.UpdateQueue(deps.Store))
			queue.POST("/rotate", handlers.RotateQueue(deps.Store))
		}

		v1.GET("/settings/:username", handlers.GetSettings(deps.Settings))
		v1.POST("/settings/:username", handlers.SaveSettings(deps.Settings))

		gameGroup := v1.Group("/game")
		{
			gameGroup.POST("/start", handlers.StartGame(deps.Store, deps.Matches))
			gameGroup.GET("/:token", handlers.GetGameState(deps.Matches))
			gameGroup.GET("/:token/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleGameWebSocket(deps.Hub, deps.Matches))
		}
	}
}
