package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/pongtourney/backend/internal/game"
)

type memoryStore struct {
	data    map[string][]byte
	loadErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Load(ctx context.Context, player string) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	d, ok := m.data[player]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *memoryStore) Save(ctx context.Context, player string, data []byte) error {
	m.data[player] = data
	return nil
}

func TestResolveMissingUsesDefaults(t *testing.T) {
	r := NewResolver(newMemoryStore())
	if got := r.Resolve(context.Background(), "alice"); got != game.DefaultMatchConfig() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestResolveMalformedUsesDefaults(t *testing.T) {
	cases := map[string]string{
		"bad json":      `{"winScore":`,
		"wrong type":    `{"winScore":"three"}`,
		"out of range":  `{"winScore":0}`,
		"unknown map":   `{"map":"lava"}`,
		"zero velocity": `{"ballSpeed":0}`,
	}
	for name, raw := range cases {
		store := newMemoryStore()
		store.data["alice"] = []byte(raw)
		r := NewResolver(store)
		if got := r.Resolve(context.Background(), "alice"); got != game.DefaultMatchConfig() {
			t.Errorf("%s: expected defaults, got %+v", name, got)
		}
	}
}

func TestResolveStoreErrorUsesDefaults(t *testing.T) {
	store := newMemoryStore()
	store.loadErr = errors.New("connection refused")
	r := NewResolver(store)
	if got := r.Resolve(context.Background(), "alice"); got != game.DefaultMatchConfig() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestSaveThenResolve(t *testing.T) {
	r := NewResolver(newMemoryStore())
	cfg := game.MatchConfig{Mode: "classic", WinScore: 5, BallSpeed: 1.5, PaddleSpeed: 3, Map: "neon"}

	if err := r.Save(context.Background(), "alice", cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if got := r.Resolve(context.Background(), "alice"); got != cfg {
		t.Errorf("expected %+v, got %+v", cfg, got)
	}
	if got := r.Resolve(context.Background(), "bob"); got != game.DefaultMatchConfig() {
		t.Errorf("other players should keep defaults, got %+v", got)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	store := newMemoryStore()
	r := NewResolver(store)
	cfg := game.DefaultMatchConfig()
	cfg.PaddleSpeed = -1

	if err := r.Save(context.Background(), "alice", cfg); err == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := store.data["alice"]; ok {
		t.Error("invalid settings should not be stored")
	}
}

func TestDecodePartialDocumentKeepsDefaults(t *testing.T) {
	cfg, err := Decode([]byte(`{"winScore":7}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := game.DefaultMatchConfig()
	want.WinScore = 7
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}
