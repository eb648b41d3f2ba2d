package game

import (
	"context"
	"log"
	"time"
)

// StartReaper starts a background worker that cancels matches nobody joined
// and evicts finished matches from memory.
func StartReaper(ctx context.Context, gm *Manager) {
	poll := gm.config.ReaperPollSeconds
	if poll <= 0 {
		poll = 30
	}

	log.Println("[REAPER] Match reaper started")
	go func() {
		ticker := time.NewTicker(time.Duration(poll) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[REAPER] Match reaper stopping")
				return
			case now := <-ticker.C:
				gm.reap(now)
			}
		}
	}()
}

// reap applies the wait and retention limits as of now. It returns the number
// of matches cancelled and evicted.
func (gm *Manager) reap(now time.Time) (cancelled, evicted int) {
	wait := time.Duration(gm.config.MatchWaitMinutes) * time.Minute
	if wait <= 0 {
		wait = 10 * time.Minute
	}
	retention := time.Duration(gm.config.MatchRetentionMinutes) * time.Minute
	if retention <= 0 {
		retention = 5 * time.Minute
	}

	gm.mu.RLock()
	matches := make([]*HostedMatch, 0, len(gm.matches))
	for _, m := range gm.matches {
		matches = append(matches, m)
	}
	gm.mu.RUnlock()

	for _, m := range matches {
		m.mu.RLock()
		status := m.Status
		created := m.CreatedAt
		var completed time.Time
		if m.CompletedAt != nil {
			completed = *m.CompletedAt
		}
		m.mu.RUnlock()

		switch status {
		case StatusWaiting:
			if now.Sub(created) >= wait {
				if gm.cancelStale(m) {
					cancelled++
				}
			}
		case StatusCompleted, StatusCancelled:
			if !completed.IsZero() && now.Sub(completed) >= retention {
				gm.remove(m.Token)
				evicted++
			}
		}
	}
	if cancelled > 0 || evicted > 0 {
		log.Printf("[REAPER] cancelled=%d evicted=%d", cancelled, evicted)
	}
	return cancelled, evicted
}

// cancelStale cancels a match nobody joined. A match removed concurrently is
// logged and not counted.
func (gm *Manager) cancelStale(m *HostedMatch) bool {
	log.Printf("[REAPER] Cancelling unjoined match %s", m.Token)
	if err := gm.Cancel(m.Token); err != nil {
		log.Printf("[REAPER] Failed to cancel %s: %v", m.Token, err)
		return false
	}
	return true
}
