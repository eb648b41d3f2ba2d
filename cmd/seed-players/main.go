package main

import (
	"context"
	"log"
	"os"

	"github.com/pongtourney/backend/internal/admin"
	"github.com/pongtourney/backend/internal/config"
	"github.com/pongtourney/backend/internal/database"
	"github.com/pongtourney/backend/internal/tournament"
)

func main() {
	// Initialize configuration (loads .env when present)
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := tournament.NewStore(db)

	seeded, err := store.SeedDefaultPlayers(ctx)
	if err != nil {
		log.Fatalf("Failed to seed players: %v", err)
	}
	if seeded {
		log.Printf("[SEED] Inserted default players: %v", tournament.DefaultPlayers)
	} else {
		log.Println("[SEED] Players already present, nothing inserted")
	}

	if err := store.EnsureQueue(ctx); err != nil {
		log.Fatalf("Failed to populate queue: %v", err)
	}
	queue, _ := store.GetQueue(ctx)
	log.Printf("[SEED] Queue: %v", queue)

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		log.Println("[SEED] ADMIN_TOKEN not set; skipping admin token hash")
		return
	}
	hash, err := admin.HashToken(adminToken)
	if err != nil {
		log.Fatalf("Failed to hash admin token: %v", err)
	}
	log.Println("[SEED] Set this in the server environment:")
	log.Printf("  ADMIN_TOKEN_HASH=%s", hash)
}
