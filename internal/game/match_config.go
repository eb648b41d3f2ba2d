package game

import (
	"fmt"
	"math"
)

// Accepted ranges for match configuration, mirroring the settings panel.
const (
	MinWinScore    = 1
	MaxWinScore    = 20
	MinBallSpeed   = 0.1
	MaxBallSpeed   = 5.0
	MinPaddleSpeed = 0.5
	MaxPaddleSpeed = 10.0
)

var (
	knownModes = map[string]bool{"custom": true, "classic": true}
	knownMaps  = map[string]bool{"default": true, "neon": true, "forest": true, "matrix": true}
)

// MatchConfig holds the per-match tunables chosen by a player.
// Mode and Map are cosmetic; PowerUps is reserved for the power-up hook.
type MatchConfig struct {
	Mode        string  `json:"mode"`
	WinScore    int     `json:"winScore"`
	BallSpeed   float64 `json:"ballSpeed"`
	PaddleSpeed float64 `json:"paddleSpeed"`
	Map         string  `json:"map"`
	PowerUps    bool    `json:"powerUps"`
}

// DefaultMatchConfig is used whenever a player has no usable stored settings.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Mode:        "custom",
		WinScore:    2,
		BallSpeed:   0.8,
		PaddleSpeed: 2,
		Map:         "default",
		PowerUps:    true,
	}
}

// Validate reports whether the config may be handed to a Driver.
func (c MatchConfig) Validate() error {
	if !knownModes[c.Mode] {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if !knownMaps[c.Map] {
		return fmt.Errorf("unknown map %q", c.Map)
	}
	if c.WinScore < MinWinScore || c.WinScore > MaxWinScore {
		return fmt.Errorf("winScore must be between %d and %d", MinWinScore, MaxWinScore)
	}
	if !inRange(c.BallSpeed, MinBallSpeed, MaxBallSpeed) {
		return fmt.Errorf("ballSpeed must be between %.1f and %.1f", MinBallSpeed, MaxBallSpeed)
	}
	if !inRange(c.PaddleSpeed, MinPaddleSpeed, MaxPaddleSpeed) {
		return fmt.Errorf("paddleSpeed must be between %.1f and %.1f", MinPaddleSpeed, MaxPaddleSpeed)
	}
	return nil
}

func inRange(v, lo, hi float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= lo && v <= hi
}
