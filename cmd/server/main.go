package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pongtourney/backend/internal/api"
	"github.com/pongtourney/backend/internal/config"
	"github.com/pongtourney/backend/internal/database"
	"github.com/pongtourney/backend/internal/game"
	"github.com/pongtourney/backend/internal/migrations"
	"github.com/pongtourney/backend/internal/redis"
	"github.com/pongtourney/backend/internal/settings"
	"github.com/pongtourney/backend/internal/tournament"
	"github.com/pongtourney/backend/internal/ws"
)

func main() {
	// Initialize configuration (loads .env when present)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		log.Println("[MIGRATE] Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	store := tournament.NewStore(db)
	if err := store.EnsureQueue(ctx); err != nil {
		log.Printf("[DB] Failed to populate queue: %v", err)
	}

	settingsStore := settings.NewCachedStore(
		settings.NewSQLStore(db), rdb,
		time.Duration(cfg.SettingsCacheSeconds)*time.Second,
	)
	resolver := settings.NewResolver(settingsStore)

	hub := ws.NewHub()
	go hub.Run()
	ws.StartEventSubscriber(ctx, rdb, hub)

	manager := game.NewManager(rdb, cfg, resolver, store, hub)
	manager.Start(ctx)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, api.Deps{
		DB:       db,
		Store:    store,
		Settings: resolver,
		Matches:  manager,
		Hub:      hub,
	}, cfg)

	port := cfg.Port
	if port == "" {
		port = "3100"
	}

	log.Printf("Starting Pong server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
