package handlers

import (
	"context"

	"github.com/pongtourney/backend/internal/game"
	"github.com/pongtourney/backend/internal/models"
)

// TournamentStore is the persistence used by the player, match and queue
// handlers. *tournament.Store implements it.
type TournamentStore interface {
	ListPlayers(ctx context.Context) ([]string, error)
	AddPlayer(ctx context.Context, alias string) (*models.Player, error)
	DeleteAllPlayers(ctx context.Context) error
	ListMatches(ctx context.Context) ([]models.Match, error)
	RecordMatch(ctx context.Context, player1, player2, winner string) error
	DeleteAllMatches(ctx context.Context) error
	GetQueue(ctx context.Context) ([]string, error)
	ReplaceQueue(ctx context.Context, aliases []string) error
	RotateQueue(ctx context.Context) ([]string, error)
	NextPair(ctx context.Context) (string, string, error)
}

// SettingsService resolves and stores per-player match settings.
type SettingsService interface {
	Resolve(ctx context.Context, player string) game.MatchConfig
	Save(ctx context.Context, player string, cfg game.MatchConfig) error
}

// MatchHost creates and looks up hosted matches. *game.Manager implements it.
type MatchHost interface {
	Create(ctx context.Context, p1, p2 string) (*game.CreatedMatch, error)
	Lookup(ctx context.Context, token string) (*game.MatchView, error)
}
