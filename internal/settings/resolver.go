package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/pongtourney/backend/internal/game"
)

// Resolver turns a player's stored settings into a MatchConfig.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve never fails: a missing or unusable settings document yields the
// default configuration.
func (r *Resolver) Resolve(ctx context.Context, player string) game.MatchConfig {
	def := game.DefaultMatchConfig()
	if r.store == nil || player == "" {
		return def
	}

	data, err := r.store.Load(ctx, player)
	if errors.Is(err, ErrNotFound) {
		return def
	}
	if err != nil {
		log.Printf("[SETTINGS] Load failed for %s, using defaults: %v", player, err)
		return def
	}

	cfg, err := Decode(data)
	if err != nil {
		log.Printf("[SETTINGS] Malformed settings for %s, using defaults: %v", player, err)
		return def
	}
	return cfg
}

// Save validates cfg and overwrites the player's settings.
func (r *Resolver) Save(ctx context.Context, player string, cfg game.MatchConfig) error {
	if player == "" {
		return errors.New("player is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return r.store.Save(ctx, player, data)
}

// Decode parses a stored settings document. Fields missing from the document
// keep their default values; the result must pass validation.
func Decode(data []byte) (game.MatchConfig, error) {
	cfg := game.DefaultMatchConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return game.MatchConfig{}, fmt.Errorf("invalid settings json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return game.MatchConfig{}, err
	}
	return cfg, nil
}
