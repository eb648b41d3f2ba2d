package game

import "math"

// MaxBounceAngle caps the deflection imparted by a paddle hit.
const MaxBounceAngle = math.Pi / 4

// PowerUpFunc is the reserved extension point for power-ups. It runs once per
// frame, after paddle integration, when the match config enables power-ups.
type PowerUpFunc func(s *MatchState)

// Engine advances a MatchState one frame at a time. The zero value is ready to use.
type Engine struct {
	PowerUps PowerUpFunc
}

// Advance runs one simulation frame. It is a no-op once the match is over.
// The ball is integrated before collisions are checked, so a wall bounce may
// leave it past the bound until the next frame.
func (e *Engine) Advance(s *MatchState) {
	if s.GameOver {
		return
	}
	s.Frame++

	e.movePaddles(s)
	if s.Config.PowerUps && e.PowerUps != nil {
		e.PowerUps(s)
	}

	s.Ball.Position = s.Ball.Position.Plus(s.Ball.Velocity)

	if math.Abs(s.Ball.Position.Y) >= s.Field.HalfHeight() {
		s.Ball.Velocity.Y = -s.Ball.Velocity.Y
	}

	// Both paddles are checked every frame; a ball can touch both in one step.
	checkPaddleCollision(s, &s.Left)
	checkPaddleCollision(s, &s.Right)

	switch {
	case s.Ball.Position.X < -s.Field.HalfWidth():
		s.RightScore++
		checkWinner(s)
		s.ResetBall()
	case s.Ball.Position.X > s.Field.HalfWidth():
		s.LeftScore++
		checkWinner(s)
		s.ResetBall()
	}
}

func (e *Engine) movePaddles(s *MatchState) {
	maxY := s.Field.MaxPaddleOffset()
	for _, p := range []*Paddle{&s.Left, &s.Right} {
		p.Y = clamp(p.Y+p.Velocity, -maxY, maxY)
	}
}

// checkPaddleCollision deflects the ball off p when they overlap. The
// horizontal gate requires the ball centre to still be on the paddle's
// field side so a ball already sent back is not caught twice.
func checkPaddleCollision(s *MatchState, p *Paddle) {
	ball := &s.Ball
	r := ball.Radius()
	halfH := s.Field.Paddle.Height / 2
	halfW := s.Field.Paddle.Width / 2

	var withinX bool
	if p.Side == SideLeft {
		withinX = ball.Position.X-r <= p.X+halfW && ball.Position.X > p.X
	} else {
		withinX = ball.Position.X+r >= p.X-halfW && ball.Position.X < p.X
	}
	withinY := ball.Position.Y+r >= p.Y-halfH && ball.Position.Y-r <= p.Y+halfH
	if !withinX || !withinY {
		return
	}

	// the gate counts the ball radius, so edge contacts can overshoot the face
	normalized := clamp((ball.Position.Y-p.Y)/halfH, -1, 1)
	angle := normalized * MaxBounceAngle
	speed := ball.Velocity.Magnitude()
	direction := p.Side.Direction()

	ball.Velocity = FromPolar(speed, angle)
	ball.Velocity.X *= direction
	ball.Position.X = p.X + direction*(halfW+r)
}

// checkWinner ends the match once either side reaches the win score.
func checkWinner(s *MatchState) {
	switch {
	case s.LeftScore >= s.Config.WinScore:
		s.GameOver = true
		s.Winner = s.Player1
	case s.RightScore >= s.Config.WinScore:
		s.GameOver = true
		s.Winner = s.Player2
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
