package game

import (
	"math"
	"testing"
)

// fixedRNG always returns the same coin value.
type fixedRNG float64

func (f fixedRNG) Float64() float64 { return float64(f) }

const eps = 1e-9

func newTestMatch(cfg MatchConfig) *MatchState {
	return NewMatch(DefaultField(), cfg, "p1", "p2", fixedRNG(0.9))
}

func place(s *MatchState, x, y, dx, dy float64) {
	s.Ball.Position = NewVec2(x, y)
	s.Ball.Velocity = NewVec2(dx, dy)
}

func TestNewMatchServesFromCentre(t *testing.T) {
	s := newTestMatch(DefaultMatchConfig())

	if !s.Ball.Position.IsZero() {
		t.Errorf("ball should start at the origin, got %+v", s.Ball.Position)
	}
	want := DefaultMatchConfig().BallSpeed
	if s.Ball.Velocity.X != want || s.Ball.Velocity.Y != want {
		t.Errorf("expected velocity (%.1f, %.1f), got %+v", want, want, s.Ball.Velocity)
	}
	if s.Left.X != -45 || s.Right.X != 45 {
		t.Errorf("paddles at wrong x: left=%.1f right=%.1f", s.Left.X, s.Right.X)
	}
}

func TestResetBallNegativeCoin(t *testing.T) {
	s := NewMatch(DefaultField(), DefaultMatchConfig(), "p1", "p2", fixedRNG(0.2))
	if s.Ball.Velocity.X >= 0 || s.Ball.Velocity.Y >= 0 {
		t.Errorf("expected both components negative, got %+v", s.Ball.Velocity)
	}
}

func TestPaddleClampedToField(t *testing.T) {
	s := newTestMatch(DefaultMatchConfig())
	place(s, 0, 0, 0.5, 0)
	s.SetPaddleVelocity(SideLeft, 10)
	s.SetPaddleVelocity(SideRight, -10)

	e := &Engine{}
	for i := 0; i < 20; i++ {
		e.Advance(s)
	}

	maxY := s.Field.MaxPaddleOffset()
	if s.Left.Y != maxY {
		t.Errorf("left paddle should stop at %.1f, got %.2f", maxY, s.Left.Y)
	}
	if s.Right.Y != -maxY {
		t.Errorf("right paddle should stop at %.1f, got %.2f", -maxY, s.Right.Y)
	}
}

func TestWallBounceInvertsVertical(t *testing.T) {
	s := newTestMatch(DefaultMatchConfig())
	place(s, 0, 31, 0, 3)

	(&Engine{}).Advance(s)

	if s.Ball.Velocity.Y != -3 {
		t.Errorf("expected dy=-3 after wall bounce, got %.2f", s.Ball.Velocity.Y)
	}
	if s.Ball.Position.Y != 34 {
		t.Errorf("ball position is not clamped on bounce, expected y=34 got %.2f", s.Ball.Position.Y)
	}
}

func TestCentreHitReturnsStraight(t *testing.T) {
	s := newTestMatch(DefaultMatchConfig())
	place(s, -40, 0, -2, 0)

	(&Engine{}).Advance(s)

	if math.Abs(s.Ball.Velocity.X-2) > eps || math.Abs(s.Ball.Velocity.Y) > eps {
		t.Errorf("expected velocity (2, 0), got %+v", s.Ball.Velocity)
	}
	if math.Abs(s.Ball.Position.X-(-41.5)) > eps {
		t.Errorf("ball should sit flush at x=-41.5, got %.3f", s.Ball.Position.X)
	}
}

func TestPaddleHitPreservesSpeedAndCapsAngle(t *testing.T) {
	offsets := []float64{-8, -5, -2, 0, 3, 6, 8}
	for _, off := range offsets {
		s := newTestMatch(DefaultMatchConfig())
		place(s, 40, off, 2, 1)
		speed := s.Ball.Velocity.Magnitude()

		(&Engine{}).Advance(s)

		v := s.Ball.Velocity
		if v.X >= 0 {
			t.Errorf("offset %.1f: ball should travel left after right paddle hit, got %+v", off, v)
			continue
		}
		if math.Abs(v.Magnitude()-speed) > 1e-6 {
			t.Errorf("offset %.1f: speed changed from %.4f to %.4f", off, speed, v.Magnitude())
		}
		angle := math.Atan2(math.Abs(v.Y), math.Abs(v.X))
		if angle > MaxBounceAngle+eps {
			t.Errorf("offset %.1f: deflection %.3f too steep", off, angle)
		}
	}
}

func TestDeflectionWithinPaddleIsCapped(t *testing.T) {
	s := newTestMatch(DefaultMatchConfig())
	// ball centre at the paddle's top edge after integration
	place(s, 40, 7-1, 2, 1)

	(&Engine{}).Advance(s)

	angle := math.Atan2(s.Ball.Velocity.Y, -s.Ball.Velocity.X)
	if math.Abs(angle-MaxBounceAngle) > 1e-9 {
		t.Errorf("edge hit should deflect at pi/4, got %.4f", angle)
	}
}

func TestEdgeOverlapDeflectsAtCap(t *testing.T) {
	// centre lands at y=9, past the paddle face but inside the radius gate
	s := newTestMatch(DefaultMatchConfig())
	place(s, 40, 8, 2, 1)
	speed := s.Ball.Velocity.Magnitude()

	(&Engine{}).Advance(s)

	v := s.Ball.Velocity
	if v.X >= 0 {
		t.Fatalf("ball should be sent back left, got %+v", v)
	}
	angle := math.Atan2(v.Y, -v.X)
	if math.Abs(angle-MaxBounceAngle) > 1e-9 {
		t.Errorf("edge overlap should deflect at pi/4, got %.4f", angle)
	}
	if math.Abs(v.Magnitude()-speed) > 1e-6 {
		t.Errorf("speed changed from %.4f to %.4f", speed, v.Magnitude())
	}
}

func TestMissScoresOnceAndResets(t *testing.T) {
	s := newTestMatch(DefaultMatchConfig())
	place(s, 49, 25, 2, 0)

	(&Engine{}).Advance(s)

	if s.LeftScore != 1 || s.RightScore != 0 {
		t.Fatalf("expected 1-0, got %d-%d", s.LeftScore, s.RightScore)
	}
	if !s.Ball.Position.IsZero() {
		t.Errorf("ball should be reset to centre after a point, got %+v", s.Ball.Position)
	}

	s2 := newTestMatch(DefaultMatchConfig())
	place(s2, -49, -25, -2, 0)
	(&Engine{}).Advance(s2)
	if s2.RightScore != 1 || s2.LeftScore != 0 {
		t.Errorf("expected 0-1, got %d-%d", s2.LeftScore, s2.RightScore)
	}
}

func TestWinningPointEndsMatch(t *testing.T) {
	cfg := DefaultMatchConfig()
	cfg.WinScore = 1
	s := newTestMatch(cfg)
	place(s, -49, 0, -2, 0)
	s.Left.Y = 20 // out of the way

	e := &Engine{}
	e.Advance(s)

	if !s.GameOver || s.Winner != "p2" {
		t.Fatalf("expected p2 to win, gameOver=%v winner=%q", s.GameOver, s.Winner)
	}

	frame := s.Frame
	pos := s.Ball.Position
	e.Advance(s)
	if s.Frame != frame || s.Ball.Position != pos {
		t.Errorf("advance after game over should be a no-op")
	}
}

func TestPowerUpHookOnlyWhenEnabled(t *testing.T) {
	calls := 0
	e := &Engine{PowerUps: func(*MatchState) { calls++ }}

	cfg := DefaultMatchConfig()
	cfg.PowerUps = false
	s := newTestMatch(cfg)
	e.Advance(s)
	if calls != 0 {
		t.Errorf("hook ran with power-ups disabled")
	}

	s = newTestMatch(DefaultMatchConfig())
	e.Advance(s)
	if calls != 1 {
		t.Errorf("expected one hook call, got %d", calls)
	}
}

func TestFieldValidate(t *testing.T) {
	if err := DefaultField().Validate(); err != nil {
		t.Fatalf("default field invalid: %v", err)
	}

	f := DefaultField()
	f.Paddle.Height = f.Height
	if err := f.Validate(); err == nil {
		t.Error("expected error for paddle as tall as the field")
	}

	f = DefaultField()
	f.BallDiameter = 0
	if err := f.Validate(); err == nil {
		t.Error("expected error for zero ball diameter")
	}
}

func TestMatchConfigValidate(t *testing.T) {
	if err := DefaultMatchConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	bad := []func(*MatchConfig){
		func(c *MatchConfig) { c.WinScore = 0 },
		func(c *MatchConfig) { c.BallSpeed = 0 },
		func(c *MatchConfig) { c.BallSpeed = math.NaN() },
		func(c *MatchConfig) { c.PaddleSpeed = -1 },
		func(c *MatchConfig) { c.Mode = "arcade" },
		func(c *MatchConfig) { c.Map = "" },
	}
	for i, mutate := range bad {
		c := DefaultMatchConfig()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected validation error for %+v", i, c)
		}
	}
}
