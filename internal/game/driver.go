package game

// WinFunc receives the winning player's identity when a match ends.
type WinFunc func(winner string)

// Renderer consumes one snapshot per tick of the match identified by token.
type Renderer interface {
	Render(token string, s Snapshot)
}

// Driver runs a single match: Running (StatusInProgress) until a side wins,
// then Finished (StatusCompleted). It is not safe for concurrent use; the
// host calls Tick and OnInput from one goroutine.
type Driver struct {
	field  FieldGeometry
	engine *Engine
	rng    RandomSource
	state  *MatchState
	status GameStatus
	onWin  WinFunc
}

// NewDriver creates an idle driver. A nil engine uses the zero Engine.
func NewDriver(field FieldGeometry, rng RandomSource, engine *Engine) *Driver {
	if engine == nil {
		engine = &Engine{}
	}
	return &Driver{
		field:  field,
		engine: engine,
		rng:    rng,
		status: StatusWaiting,
	}
}

// Start builds a fresh match and enters Running. cfg must already be valid.
func (d *Driver) Start(cfg MatchConfig, p1, p2 string, onWin WinFunc) {
	d.state = NewMatch(d.field, cfg, p1, p2, d.rng)
	d.onWin = onWin
	d.status = StatusInProgress
}

// Tick advances one frame while Running and returns the resulting snapshot.
// The win callback fires on the tick where the match ends, and never again.
func (d *Driver) Tick() Snapshot {
	if d.state == nil {
		return Snapshot{}
	}
	if d.status != StatusInProgress {
		return d.state.Snapshot()
	}

	d.engine.Advance(d.state)

	if d.state.GameOver {
		d.status = StatusCompleted
		if d.onWin != nil {
			win := d.onWin
			d.onWin = nil
			win(d.state.Winner)
		}
	}
	return d.state.Snapshot()
}

// OnInput sets a paddle velocity. It is accepted in any state and has no
// visible effect once the match is finished.
func (d *Driver) OnInput(side Side, velocity float64) {
	if d.state == nil {
		return
	}
	d.state.SetPaddleVelocity(side, velocity)
}

// Snapshot returns the current frame without advancing.
func (d *Driver) Snapshot() Snapshot {
	if d.state == nil {
		return Snapshot{}
	}
	return d.state.Snapshot()
}

func (d *Driver) Status() GameStatus {
	return d.status
}

// Config returns the configuration of the running match.
func (d *Driver) Config() MatchConfig {
	if d.state == nil {
		return MatchConfig{}
	}
	return d.state.Config
}
