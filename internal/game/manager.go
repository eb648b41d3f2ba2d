package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pongtourney/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrSamePlayer    = errors.New("a player cannot play against themselves")
)

// EventsChannel is the Redis pub/sub channel carrying match lifecycle events.
const EventsChannel = "game_events"

// ConfigResolver supplies the match configuration for a player.
type ConfigResolver interface {
	Resolve(ctx context.Context, player string) MatchConfig
}

// Recorder persists the result of a completed match.
type Recorder interface {
	RecordMatch(ctx context.Context, player1, player2, winner string) error
}

// Broadcaster renders frames and delivers ad-hoc messages to a match's clients.
type Broadcaster interface {
	Renderer
	Notify(token string, message interface{})
}

// HostedMatch is a match driven server side by a runner goroutine.
type HostedMatch struct {
	Token       string      `json:"token"`
	Player1     string      `json:"player1"`
	Player2     string      `json:"player2"`
	Config      MatchConfig `json:"config"`
	Status      GameStatus  `json:"status"`
	Winner      string      `json:"winner,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`

	driver *Driver
	inputs chan Input
	cancel context.CancelFunc
	last   Snapshot
	mu     sync.RWMutex
}

// MatchView is the JSON shape of a hosted match.
type MatchView struct {
	Token       string      `json:"token"`
	Player1     string      `json:"player1"`
	Player2     string      `json:"player2"`
	Config      MatchConfig `json:"config"`
	Status      GameStatus  `json:"status"`
	Winner      string      `json:"winner,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Snapshot    Snapshot    `json:"snapshot"`
}

// View returns a consistent copy of the match for serialisation.
func (m *HostedMatch) View() MatchView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MatchView{
		Token:       m.Token,
		Player1:     m.Player1,
		Player2:     m.Player2,
		Config:      m.Config,
		Status:      m.Status,
		Winner:      m.Winner,
		CreatedAt:   m.CreatedAt,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
		Snapshot:    m.last,
	}
}

// CreatedMatch is returned to the caller that started a hosted match.
type CreatedMatch struct {
	Match         MatchView          `json:"match"`
	ControlTokens map[Control]string `json:"control_tokens"`
}

// Manager owns all hosted matches.
type Manager struct {
	matches     map[string]*HostedMatch
	resolver    ConfigResolver
	recorder    Recorder
	broadcaster Broadcaster
	tokens      *TokenIssuer
	rdb         *redis.Client
	config      *config.Config
	field       FieldGeometry
	newRNG      func() RandomSource
	ctx         context.Context
	mu          sync.RWMutex
}

// NewManager creates a match manager. rdb and broadcaster may be nil.
func NewManager(rdb *redis.Client, cfg *config.Config, resolver ConfigResolver, recorder Recorder, broadcaster Broadcaster) *Manager {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Manager{
		matches:     make(map[string]*HostedMatch),
		resolver:    resolver,
		recorder:    recorder,
		broadcaster: broadcaster,
		tokens:      NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.ControlTokenTTLMinutes)*time.Minute),
		rdb:         rdb,
		config:      cfg,
		field:       DefaultField(),
		newRNG:      NewRandomSource,
		ctx:         context.Background(),
	}
}

// Start sets the root context for match runners and starts the reaper.
func (gm *Manager) Start(ctx context.Context) {
	gm.mu.Lock()
	gm.ctx = ctx
	gm.mu.Unlock()
	StartReaper(ctx, gm)
}

// Tokens exposes the control token issuer.
func (gm *Manager) Tokens() *TokenIssuer {
	return gm.tokens
}

// Create sets up a hosted match between p1 (left) and p2 (right) using p1's
// settings. The match waits for a controller to connect before it runs.
func (gm *Manager) Create(ctx context.Context, p1, p2 string) (*CreatedMatch, error) {
	if p1 == "" || p2 == "" {
		return nil, errors.New("two players are required")
	}
	if p1 == p2 {
		return nil, ErrSamePlayer
	}

	cfg := DefaultMatchConfig()
	if gm.resolver != nil {
		cfg = gm.resolver.Resolve(ctx, p1)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid match config for %s: %w", p1, err)
	}
	if err := gm.field.Validate(); err != nil {
		return nil, err
	}

	token := generateMatchToken()
	m := &HostedMatch{
		Token:     token,
		Player1:   p1,
		Player2:   p2,
		Config:    cfg,
		Status:    StatusWaiting,
		CreatedAt: time.Now(),
		driver:    NewDriver(gm.field, gm.newRNG(), &Engine{}),
		inputs:    make(chan Input, 64),
	}
	m.driver.Start(cfg, p1, p2, func(winner string) {
		m.mu.Lock()
		m.Winner = winner
		m.mu.Unlock()
	})
	m.last = m.driver.Snapshot()

	controls, err := gm.tokens.IssueAll(token)
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	gm.matches[token] = m
	gm.mu.Unlock()

	log.Printf("[MATCH] Created %s: %s vs %s (winScore=%d ballSpeed=%.2f paddleSpeed=%.2f map=%s)",
		token, p1, p2, cfg.WinScore, cfg.BallSpeed, cfg.PaddleSpeed, cfg.Map)

	gm.saveSnapshot(m)
	return &CreatedMatch{Match: m.View(), ControlTokens: controls}, nil
}

// Get returns a hosted match by token.
func (gm *Manager) Get(token string) (*HostedMatch, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	m, ok := gm.matches[token]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// Lookup returns the view of a match, falling back to the Redis copy for
// matches that are no longer held in memory.
func (gm *Manager) Lookup(ctx context.Context, token string) (*MatchView, error) {
	if m, err := gm.Get(token); err == nil {
		v := m.View()
		return &v, nil
	}
	return gm.loadSnapshot(ctx, token)
}

// Activate starts the runner of a waiting match. It is idempotent.
func (gm *Manager) Activate(token string) error {
	m, err := gm.Get(token)
	if err != nil {
		return err
	}

	gm.mu.RLock()
	root := gm.ctx
	gm.mu.RUnlock()

	m.mu.Lock()
	if m.Status != StatusWaiting {
		m.mu.Unlock()
		return nil
	}
	now := time.Now()
	m.Status = StatusInProgress
	m.StartedAt = &now
	ctx, cancel := context.WithCancel(root)
	m.cancel = cancel
	m.mu.Unlock()

	log.Printf("[MATCH] %s started", token)
	go gm.run(ctx, m)
	return nil
}

// SendInput queues a paddle input for a match. Inputs for matches that are
// not running are dropped silently.
func (gm *Manager) SendInput(token string, in Input) error {
	m, err := gm.Get(token)
	if err != nil {
		return err
	}

	m.mu.RLock()
	running := m.Status == StatusInProgress
	m.mu.RUnlock()
	if !running {
		return nil
	}

	select {
	case m.inputs <- in:
	default:
		log.Printf("[MATCH] Input buffer full for %s, dropping %s=%.2f", token, in.Side, in.Velocity)
	}
	return nil
}

// Cancel stops a waiting or running match without recording a result.
func (gm *Manager) Cancel(token string) error {
	m, err := gm.Get(token)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.Status == StatusCompleted || m.Status == StatusCancelled {
		m.mu.Unlock()
		return nil
	}
	cancel := m.cancel
	if cancel == nil {
		// never started; no runner to mark it
		now := time.Now()
		m.Status = StatusCancelled
		m.CompletedAt = &now
	}
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	} else {
		gm.saveSnapshot(m)
		gm.notify(m.Token, map[string]interface{}{"type": "match_cancelled", "message": "Match cancelled"})
	}
	return nil
}

// ActiveCount returns the number of matches currently running.
func (gm *Manager) ActiveCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	n := 0
	for _, m := range gm.matches {
		m.mu.RLock()
		if m.Status == StatusInProgress {
			n++
		}
		m.mu.RUnlock()
	}
	return n
}

// finish records the result of a completed match and announces it. The
// result is saved even if ctx is cancelled while the winning frame lands.
func (gm *Manager) finish(ctx context.Context, m *HostedMatch) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	m.mu.RLock()
	winner := m.Winner
	snap := m.last
	m.mu.RUnlock()

	log.Printf("[MATCH] %s finished: %s %d : %d %s, winner=%s",
		m.Token, m.Player1, snap.LeftScore, snap.RightScore, m.Player2, winner)

	recorded := true
	if gm.recorder != nil {
		if err := gm.recorder.RecordMatch(ctx, m.Player1, m.Player2, winner); err != nil {
			recorded = false
			log.Printf("[DB] Failed to record match %s: %v", m.Token, err)
			gm.notify(m.Token, map[string]interface{}{
				"type":    "record_failed",
				"message": "Match result could not be saved",
			})
		}
	}

	now := time.Now()
	m.mu.Lock()
	m.Status = StatusCompleted
	m.CompletedAt = &now
	m.mu.Unlock()

	gm.saveSnapshot(m)

	event := map[string]interface{}{
		"type":        "match_finished",
		"match_token": m.Token,
		"player1":     m.Player1,
		"player2":     m.Player2,
		"winner":      winner,
		"left_score":  snap.LeftScore,
		"right_score": snap.RightScore,
		"recorded":    recorded,
	}
	if !gm.publish(ctx, event) {
		gm.notify(m.Token, GameOverMessage(event))
	}
}

// GameOverMessage converts a match_finished event into the client message.
func GameOverMessage(event map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":        "game_over",
		"winner":      event["winner"],
		"left_score":  event["left_score"],
		"right_score": event["right_score"],
		"message":     fmt.Sprintf("%v wins!", event["winner"]),
	}
}

func (gm *Manager) notify(token string, msg interface{}) {
	if gm.broadcaster != nil {
		gm.broadcaster.Notify(token, msg)
	}
}

// publish sends an event on the Redis events channel. It reports false when
// Redis is unavailable so the caller can deliver locally.
func (gm *Manager) publish(ctx context.Context, event map[string]interface{}) bool {
	if gm.rdb == nil {
		return false
	}
	b, err := json.Marshal(event)
	if err != nil {
		log.Printf("[MATCH] Failed to marshal event: %v", err)
		return false
	}
	if err := gm.rdb.Publish(ctx, EventsChannel, b).Err(); err != nil {
		log.Printf("[MATCH] Publish %v failed: %v", event["type"], err)
		return false
	}
	return true
}

func snapshotKey(token string) string {
	return "match:" + token + ":state"
}

// saveSnapshot saves the match view to Redis.
func (gm *Manager) saveSnapshot(m *HostedMatch) {
	if gm.rdb == nil {
		return
	}
	data, err := json.Marshal(m.View())
	if err != nil {
		log.Printf("[MATCH] Failed to marshal %s: %v", m.Token, err)
		return
	}
	if err := gm.rdb.SetEx(context.Background(), snapshotKey(m.Token), data, time.Hour).Err(); err != nil {
		log.Printf("[MATCH] Failed to save %s to Redis: %v", m.Token, err)
	}
}

func (gm *Manager) loadSnapshot(ctx context.Context, token string) (*MatchView, error) {
	if gm.rdb == nil {
		return nil, ErrMatchNotFound
	}
	data, err := gm.rdb.Get(ctx, snapshotKey(token)).Bytes()
	if err == redis.Nil {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match %s: %w", token, err)
	}
	var v MatchView
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("corrupt match snapshot %s: %w", token, err)
	}
	return &v, nil
}

// remove drops a match from memory.
func (gm *Manager) remove(token string) {
	gm.mu.Lock()
	delete(gm.matches, token)
	gm.mu.Unlock()
}
