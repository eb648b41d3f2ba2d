package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pongtourney/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by a Store when a player has no saved settings.
var ErrNotFound = errors.New("settings not found")

// Store persists the raw settings document of each player.
type Store interface {
	Load(ctx context.Context, player string) ([]byte, error)
	Save(ctx context.Context, player string, data []byte) error
}

// SQLStore keeps settings in the settings table.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context, player string) ([]byte, error) {
	var row models.SettingsRow
	err := s.db.GetContext(ctx, &row, `SELECT username, data, updated_at FROM settings WHERE username = $1`, player)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings for %s: %w", player, err)
	}
	return []byte(row.Data), nil
}

func (s *SQLStore) Save(ctx context.Context, player string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (username, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (username) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = NOW()
	`, player, string(data))
	if err != nil {
		return fmt.Errorf("failed to save settings for %s: %w", player, err)
	}
	return nil
}

// CachedStore is a Redis read-through cache in front of another Store.
type CachedStore struct {
	next Store
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedStore{next: next, rdb: rdb, ttl: ttl}
}

func cacheKey(player string) string {
	return "settings:" + player
}

func (c *CachedStore) Load(ctx context.Context, player string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, cacheKey(player)).Bytes()
	if err == nil {
		return data, nil
	}
	if err != redis.Nil {
		log.Printf("[SETTINGS] Cache read failed for %s: %v", player, err)
	}

	data, err = c.next.Load(ctx, player)
	if err != nil {
		return nil, err
	}
	if err := c.rdb.SetEx(ctx, cacheKey(player), data, c.ttl).Err(); err != nil {
		log.Printf("[SETTINGS] Cache write failed for %s: %v", player, err)
	}
	return data, nil
}

func (c *CachedStore) Save(ctx context.Context, player string, data []byte) error {
	if err := c.next.Save(ctx, player, data); err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, cacheKey(player)).Err(); err != nil {
		log.Printf("[SETTINGS] Cache invalidation failed for %s: %v", player, err)
	}
	return nil
}
