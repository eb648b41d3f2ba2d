package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pongtourney/backend/internal/config"
)

type staticResolver struct{ cfg MatchConfig }

func (r staticResolver) Resolve(ctx context.Context, player string) MatchConfig { return r.cfg }

type fakeRecorder struct {
	mu      sync.Mutex
	results []string
	err     error
	ctxErrs []error
}

func (f *fakeRecorder) RecordMatch(ctx context.Context, p1, p2, winner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, winner)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.err
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.results)
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	frames   int
	messages []string
}

func (b *fakeBroadcaster) Render(token string, s Snapshot) {
	b.mu.Lock()
	b.frames++
	b.mu.Unlock()
}

func (b *fakeBroadcaster) Notify(token string, msg interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := msg.(map[string]interface{}); ok {
		b.messages = append(b.messages, m["type"].(string))
	}
}

func (b *fakeBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.messages...)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:              "test-secret",
		ControlTokenTTLMinutes: 5,
		TickRateHz:             500,
		MatchWaitMinutes:       10,
		MatchRetentionMinutes:  5,
	}
}

func newTestManager(cfg MatchConfig, rec Recorder, b Broadcaster) *Manager {
	gm := NewManager(nil, testConfig(), staticResolver{cfg: cfg}, rec, b)
	gm.newRNG = func() RandomSource { return fixedRNG(0.9) }
	return gm
}

func waitForStatus(t *testing.T, m *HostedMatch, want GameStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.View().Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("match %s never reached %s (status=%s)", m.Token, want, m.View().Status)
}

func waitForMessages(t *testing.T, b *fakeBroadcaster, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if types := b.types(); len(types) >= n {
			return types
		}
		time.Sleep(5 * time.Millisecond)
	}
	return b.types()
}

func TestCreateRejectsSamePlayer(t *testing.T) {
	gm := newTestManager(DefaultMatchConfig(), nil, nil)
	if _, err := gm.Create(context.Background(), "alice", "alice"); !errors.Is(err, ErrSamePlayer) {
		t.Errorf("expected ErrSamePlayer, got %v", err)
	}
}

func TestCreateRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultMatchConfig()
	cfg.WinScore = 0
	gm := newTestManager(cfg, nil, nil)
	if _, err := gm.Create(context.Background(), "alice", "bob"); err == nil {
		t.Error("expected config validation error")
	}
}

func TestCreateIssuesControlTokens(t *testing.T) {
	gm := newTestManager(DefaultMatchConfig(), nil, nil)
	created, err := gm.Create(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Match.Status != StatusWaiting {
		t.Errorf("new match should wait, got %s", created.Match.Status)
	}
	for _, c := range []Control{ControlLeft, ControlRight, ControlBoth} {
		claims, err := gm.Tokens().Parse(created.ControlTokens[c])
		if err != nil {
			t.Fatalf("token %s invalid: %v", c, err)
		}
		if claims.Match != created.Match.Token || claims.Control != c {
			t.Errorf("unexpected claims for %s: %+v", c, claims)
		}
	}
}

func TestHostedMatchRecordsWinnerOnce(t *testing.T) {
	cfg := DefaultMatchConfig()
	cfg.WinScore = 1
	rec := &fakeRecorder{}
	b := &fakeBroadcaster{}
	gm := newTestManager(cfg, rec, b)

	created, err := gm.Create(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	m, _ := gm.Get(created.Match.Token)
	place(m.driver.state, 49, 25, 2, 0)

	if err := gm.Activate(m.Token); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	gm.Activate(m.Token)

	waitForStatus(t, m, StatusCompleted)

	if rec.count() != 1 {
		t.Fatalf("expected one recorded result, got %d", rec.count())
	}
	if v := m.View(); v.Winner != "alice" || v.Snapshot.LeftScore != 1 {
		t.Errorf("unexpected final view: %+v", v)
	}
	types := waitForMessages(t, b, 1)
	if len(types) != 1 || types[0] != "game_over" {
		t.Errorf("expected a single game_over notification, got %v", types)
	}

	// inputs after the end are dropped
	if err := gm.SendInput(m.Token, Input{Side: SideLeft, Velocity: 2}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRecordFailureNotifiesClients(t *testing.T) {
	cfg := DefaultMatchConfig()
	cfg.WinScore = 1
	rec := &fakeRecorder{err: errors.New("db down")}
	b := &fakeBroadcaster{}
	gm := newTestManager(cfg, rec, b)

	created, err := gm.Create(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	m, _ := gm.Get(created.Match.Token)
	place(m.driver.state, -49, -25, -2, 0)
	gm.Activate(m.Token)

	waitForStatus(t, m, StatusCompleted)

	types := waitForMessages(t, b, 2)
	if len(types) != 2 || types[0] != "record_failed" || types[1] != "game_over" {
		t.Errorf("expected record_failed then game_over, got %v", types)
	}
	if m.View().Winner != "bob" {
		t.Errorf("expected bob to win, got %q", m.View().Winner)
	}
}

func TestFinishRecordsAfterCancellation(t *testing.T) {
	rec := &fakeRecorder{}
	b := &fakeBroadcaster{}
	gm := newTestManager(DefaultMatchConfig(), rec, b)

	created, err := gm.Create(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	m, _ := gm.Get(created.Match.Token)
	m.Winner = "alice"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gm.finish(ctx, m)

	if rec.count() != 1 || rec.ctxErrs[0] != nil {
		t.Fatalf("result should be recorded with a live context, got ctx errors %v", rec.ctxErrs)
	}
	if types := b.types(); len(types) != 1 || types[0] != "game_over" {
		t.Errorf("expected game_over only, got %v", types)
	}
	if m.View().Status != StatusCompleted {
		t.Errorf("expected completed, got %s", m.View().Status)
	}
}

func TestSendInputUnknownMatch(t *testing.T) {
	gm := newTestManager(DefaultMatchConfig(), nil, nil)
	if err := gm.SendInput("nope", Input{Side: SideLeft}); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}
	if _, err := gm.Lookup(context.Background(), "nope"); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestCancelRunningMatch(t *testing.T) {
	b := &fakeBroadcaster{}
	gm := newTestManager(DefaultMatchConfig(), &fakeRecorder{}, b)
	created, _ := gm.Create(context.Background(), "alice", "bob")
	m, _ := gm.Get(created.Match.Token)
	m.driver.state.Ball.Velocity = Vec2{}

	gm.Activate(m.Token)
	if gm.ActiveCount() != 1 {
		t.Errorf("expected one active match")
	}
	gm.Cancel(m.Token)
	waitForStatus(t, m, StatusCancelled)
}

func TestReaperCancelsAndEvicts(t *testing.T) {
	b := &fakeBroadcaster{}
	gm := newTestManager(DefaultMatchConfig(), nil, b)
	created, err := gm.Create(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	token := created.Match.Token

	if c, e := gm.reap(time.Now()); c != 0 || e != 0 {
		t.Fatalf("fresh match should be left alone, got cancelled=%d evicted=%d", c, e)
	}

	c, _ := gm.reap(time.Now().Add(11 * time.Minute))
	if c != 1 {
		t.Fatalf("expected unjoined match to be cancelled")
	}
	m, err := gm.Get(token)
	if err != nil {
		t.Fatalf("cancelled match should still be retained: %v", err)
	}
	if m.View().Status != StatusCancelled {
		t.Errorf("expected CANCELLED, got %s", m.View().Status)
	}

	_, e := gm.reap(time.Now().Add(20 * time.Minute))
	if e != 1 {
		t.Fatalf("expected match to be evicted")
	}
	if _, err := gm.Get(token); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("expected evicted match to be gone, got %v", err)
	}
}

func TestCancelStaleSkipsRemovedMatch(t *testing.T) {
	gm := newTestManager(DefaultMatchConfig(), nil, nil)
	created, err := gm.Create(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	m, _ := gm.Get(created.Match.Token)
	gm.remove(m.Token)

	if gm.cancelStale(m) {
		t.Error("a removed match should not be counted as cancelled")
	}
	if m.View().Status != StatusWaiting {
		t.Errorf("expected status untouched, got %s", m.View().Status)
	}
}
