package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("TICK_RATE_HZ", "")
	t.Setenv("MIGRATE_ON_START", "")

	cfg := Load()
	if cfg.Port != "3100" {
		t.Errorf("expected port 3100, got %s", cfg.Port)
	}
	if cfg.TickRateHz != 60 {
		t.Errorf("expected 60 Hz, got %d", cfg.TickRateHz)
	}
	if cfg.MigrateOnStart {
		t.Error("migrations should be off by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("TICK_RATE_HZ", "120")
	t.Setenv("MIGRATE_ON_START", "true")
	t.Setenv("MATCH_WAIT_MINUTES", "not-a-number")

	cfg := Load()
	if cfg.Port != "9000" || cfg.TickRateHz != 120 || !cfg.MigrateOnStart {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.MatchWaitMinutes != 10 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.MatchWaitMinutes)
	}
}
