package game

import (
	"math/rand"
	"time"
)

// RandomSource supplies the coin flips used when serving the ball.
// *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a time-seeded source owned by a single match.
func NewRandomSource() RandomSource {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Paddle is one side's paddle. Y is the offset from the midline.
type Paddle struct {
	Side     Side    `json:"side"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Velocity float64 `json:"velocity"`
}

// Ball is the ball's physics state.
type Ball struct {
	Position Vec2    `json:"position"`
	Velocity Vec2    `json:"velocity"`
	Diameter float64 `json:"diameter"`
}

// Radius returns half the ball diameter.
func (b Ball) Radius() float64 {
	return b.Diameter / 2
}

// MatchState is the complete mutable state of one match.
type MatchState struct {
	Field      FieldGeometry `json:"field"`
	Config     MatchConfig   `json:"config"`
	Left       Paddle        `json:"left"`
	Right      Paddle        `json:"right"`
	Ball       Ball          `json:"ball"`
	LeftScore  int           `json:"left_score"`
	RightScore int           `json:"right_score"`
	GameOver   bool          `json:"game_over"`
	Winner     string        `json:"winner,omitempty"`
	Player1    string        `json:"player1"`
	Player2    string        `json:"player2"`
	Frame      int           `json:"frame"`
	rng        RandomSource
}

// NewMatch creates a match with both paddles centred and the ball served.
func NewMatch(field FieldGeometry, cfg MatchConfig, p1, p2 string, rng RandomSource) *MatchState {
	if rng == nil {
		rng = NewRandomSource()
	}
	s := &MatchState{
		Field:   field,
		Config:  cfg,
		Left:    Paddle{Side: SideLeft, X: field.PaddleX(SideLeft)},
		Right:   Paddle{Side: SideRight, X: field.PaddleX(SideRight)},
		Ball:    Ball{Diameter: field.BallDiameter},
		Player1: p1,
		Player2: p2,
		rng:     rng,
	}
	s.ResetBall()
	return s
}

// ResetBall serves from the centre with independently randomised signs.
func (s *MatchState) ResetBall() {
	s.Ball.Position = Vec2{}
	s.Ball.Velocity = NewVec2(
		s.Config.BallSpeed*s.coinSign(),
		s.Config.BallSpeed*s.coinSign(),
	)
}

func (s *MatchState) coinSign() float64 {
	if s.rng.Float64() > 0.5 {
		return 1
	}
	return -1
}

// SetPaddleVelocity overwrites a paddle's velocity. Bounds are enforced by Advance.
func (s *MatchState) SetPaddleVelocity(side Side, velocity float64) {
	s.paddle(side).Velocity = velocity
}

func (s *MatchState) paddle(side Side) *Paddle {
	if side == SideLeft {
		return &s.Left
	}
	return &s.Right
}

// Snapshot is the read-only frame view handed to renderers.
type Snapshot struct {
	Frame       int     `json:"frame"`
	LeftPaddle  float64 `json:"left_paddle"`
	RightPaddle float64 `json:"right_paddle"`
	Ball        Vec2    `json:"ball"`
	LeftScore   int     `json:"left_score"`
	RightScore  int     `json:"right_score"`
	GameOver    bool    `json:"game_over"`
	Winner      string  `json:"winner,omitempty"`
	Player1     string  `json:"player1"`
	Player2     string  `json:"player2"`
}

// Snapshot copies the renderable parts of the state.
func (s *MatchState) Snapshot() Snapshot {
	return Snapshot{
		Frame:       s.Frame,
		LeftPaddle:  s.Left.Y,
		RightPaddle: s.Right.Y,
		Ball:        s.Ball.Position,
		LeftScore:   s.LeftScore,
		RightScore:  s.RightScore,
		GameOver:    s.GameOver,
		Winner:      s.Winner,
		Player1:     s.Player1,
		Player2:     s.Player2,
	}
}
