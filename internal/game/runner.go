package game

import (
	"context"
	"log"
	"time"
)

// run drives a hosted match at the configured tick rate until it finishes
// or ctx is cancelled.
func (gm *Manager) run(ctx context.Context, m *HostedMatch) {
	hz := gm.config.TickRateHz
	if hz <= 0 {
		hz = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	lastLeft, lastRight := -1, -1
	for {
		select {
		case <-ctx.Done():
			gm.markCancelled(m)
			return
		case in := <-m.inputs:
			m.driver.OnInput(in.Side, in.Velocity)
		case <-ticker.C:
			if gm.step(ctx, m, &lastLeft, &lastRight) {
				return
			}
		}
	}
}

// step advances one frame. It reports true once the match has finished.
func (gm *Manager) step(ctx context.Context, m *HostedMatch, lastLeft, lastRight *int) bool {
	snap := m.driver.Tick()

	m.mu.Lock()
	m.last = snap
	m.mu.Unlock()

	if gm.broadcaster != nil {
		gm.broadcaster.Render(m.Token, snap)
	}

	if m.driver.Status() == StatusCompleted {
		gm.finish(ctx, m)
		return true
	}

	if snap.LeftScore != *lastLeft || snap.RightScore != *lastRight {
		*lastLeft, *lastRight = snap.LeftScore, snap.RightScore
		gm.saveSnapshot(m)
	}
	return false
}

func (gm *Manager) markCancelled(m *HostedMatch) {
	now := time.Now()
	m.mu.Lock()
	if m.Status == StatusCompleted {
		m.mu.Unlock()
		return
	}
	m.Status = StatusCancelled
	m.CompletedAt = &now
	m.mu.Unlock()

	log.Printf("[MATCH] %s cancelled", m.Token)
	gm.saveSnapshot(m)
	gm.notify(m.Token, map[string]interface{}{"type": "match_cancelled", "message": "Match cancelled"})
}
