package tournament

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pongtourney/backend/internal/models"
)

var (
	ErrAliasExists    = errors.New("alias already exists")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrAliasRequired  = errors.New("alias required")
	ErrQueueDuplicate = errors.New("alias is already queued")
)

// DefaultPlayers are inserted by SeedDefaultPlayers into an empty players table.
var DefaultPlayers = []string{"player1", "player2", "test-user"}

// pqUniqueViolation is the Postgres SQLSTATE for unique_violation.
const pqUniqueViolation = "23505"

// Store persists players, match results and the play queue.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ListPlayers returns all aliases in ascending order.
func (s *Store) ListPlayers(ctx context.Context) ([]string, error) {
	aliases := []string{}
	if err := s.db.SelectContext(ctx, &aliases, `SELECT alias FROM players ORDER BY alias ASC`); err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return aliases, nil
}

// AddPlayer registers a new alias. Surrounding whitespace is trimmed.
func (s *Store) AddPlayer(ctx context.Context, alias string) (*models.Player, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return nil, ErrAliasRequired
	}
	var player models.Player
	err := s.db.GetContext(ctx, &player,
		`INSERT INTO players (alias) VALUES ($1) RETURNING id, alias, created_at`, alias)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil, ErrAliasExists
		}
		return nil, fmt.Errorf("failed to add player: %w", err)
	}
	return &player, nil
}

// DeleteAllPlayers removes every player and empties the queue in one transaction.
func (s *Store) DeleteAllPlayers(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM queue`); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("failed to delete players: %w", err)
	}
	return tx.Commit()
}

// ListMatches returns recorded matches, oldest first.
func (s *Store) ListMatches(ctx context.Context) ([]models.Match, error) {
	matches := []models.Match{}
	err := s.db.SelectContext(ctx, &matches, `
		SELECT id, player1, player2, winner, played_at
		FROM matches
		ORDER BY played_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// RecordMatch stores a result. All three aliases must be registered players.
func (s *Store) RecordMatch(ctx context.Context, player1, player2, winner string) error {
	if player1 == "" || player2 == "" || winner == "" {
		return errors.New("missing players or winner")
	}

	query, args, err := sqlx.In(`SELECT alias FROM players WHERE alias IN (?)`, []string{player1, player2, winner})
	if err != nil {
		return fmt.Errorf("failed to build player lookup: %w", err)
	}
	var found []string
	if err := s.db.SelectContext(ctx, &found, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to look up players: %w", err)
	}
	known := make(map[string]bool, len(found))
	for _, a := range found {
		known[a] = true
	}
	for _, a := range []string{player1, player2, winner} {
		if !known[a] {
			return fmt.Errorf("%w: %s", ErrUnknownPlayer, a)
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO matches (player1, player2, winner) VALUES ($1, $2, $3)`,
		player1, player2, winner)
	if err != nil {
		return fmt.Errorf("failed to record match: %w", err)
	}
	log.Printf("[DB] Recorded match %s vs %s, winner %s", player1, player2, winner)
	return nil
}

// DeleteAllMatches removes every recorded match.
func (s *Store) DeleteAllMatches(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM matches`); err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	return nil
}

// GetQueue returns queued aliases in insertion order.
func (s *Store) GetQueue(ctx context.Context) ([]string, error) {
	var entries []models.QueueEntry
	if err := s.db.SelectContext(ctx, &entries, `SELECT position, alias FROM queue ORDER BY position ASC`); err != nil {
		return nil, fmt.Errorf("failed to load queue: %w", err)
	}
	aliases := make([]string, 0, len(entries))
	for _, e := range entries {
		aliases = append(aliases, e.Alias)
	}
	return aliases, nil
}

// ReplaceQueue atomically replaces the queue contents.
func (s *Store) ReplaceQueue(ctx context.Context, aliases []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := replaceQueueTx(ctx, tx, aliases); err != nil {
		return err
	}
	return tx.Commit()
}

// RotateQueue moves the two players at the head of the queue to the back
// and returns the new order.
func (s *Store) RotateQueue(ctx context.Context) ([]string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var aliases []string
	if err := tx.SelectContext(ctx, &aliases, `SELECT alias FROM queue ORDER BY position ASC FOR UPDATE`); err != nil {
		return nil, fmt.Errorf("failed to load queue: %w", err)
	}
	rotated := Rotate(aliases)
	if err := replaceQueueTx(ctx, tx, rotated); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit queue rotation: %w", err)
	}
	return rotated, nil
}

// EnsureQueue fills an empty queue with all registered players.
func (s *Store) EnsureQueue(ctx context.Context) error {
	queue, err := s.GetQueue(ctx)
	if err != nil {
		return err
	}
	if len(queue) > 0 {
		return nil
	}
	players, err := s.ListPlayers(ctx)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		return nil
	}
	log.Printf("[DB] Queue empty, populating with %d players", len(players))
	return s.ReplaceQueue(ctx, players)
}

// SeedDefaultPlayers inserts DefaultPlayers when no players exist. It reports
// whether anything was inserted.
func (s *Store) SeedDefaultPlayers(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM players`); err != nil {
		return false, fmt.Errorf("failed to count players: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	for _, alias := range DefaultPlayers {
		if _, err := s.AddPlayer(ctx, alias); err != nil && !errors.Is(err, ErrAliasExists) {
			return false, err
		}
	}
	return true, nil
}

// NextPair returns the two players at the head of the queue.
func (s *Store) NextPair(ctx context.Context) (string, string, error) {
	queue, err := s.GetQueue(ctx)
	if err != nil {
		return "", "", err
	}
	return Pair(queue)
}

func replaceQueueTx(ctx context.Context, tx *sqlx.Tx, aliases []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM queue`); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	for _, alias := range aliases {
		if _, err := tx.ExecContext(ctx, `INSERT INTO queue (alias) VALUES ($1)`, alias); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
				return fmt.Errorf("%w: %s", ErrQueueDuplicate, alias)
			}
			return fmt.Errorf("failed to enqueue %s: %w", alias, err)
		}
	}
	return nil
}
