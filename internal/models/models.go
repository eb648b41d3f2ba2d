package models

import (
	"time"
)

// Player is a registered tournament participant
type Player struct {
	ID        int       `db:"id" json:"id"`
	Alias     string    `db:"alias" json:"alias"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Match is a recorded result
type Match struct {
	ID       int       `db:"id" json:"id"`
	Player1  string    `db:"player1" json:"player1"`
	Player2  string    `db:"player2" json:"player2"`
	Winner   string    `db:"winner" json:"winner"`
	PlayedAt time.Time `db:"played_at" json:"played_at"`
}

// QueueEntry is a player waiting to play, ordered by position
type QueueEntry struct {
	Position int    `db:"position" json:"position"`
	Alias    string `db:"alias" json:"alias"`
}

// SettingsRow holds a player's stored settings document
type SettingsRow struct {
	Username  string    `db:"username" json:"username"`
	Data      string    `db:"data" json:"data"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
