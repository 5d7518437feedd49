package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Leaderboard.Backend != BackendSQLite || cfg.Game.MaxLives != 3 || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: "9090"
game:
  max_lives: 5
leaderboard:
  backend: redis
  cache_ttl: 30s
redis:
  addr: localhost:6379
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CALQUIZ_GAME_MAX_LIVES", "4")
	t.Setenv("CALQUIZ_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected yaml port, got %q", cfg.Server.Port)
	}
	if cfg.Game.MaxLives != 4 {
		t.Fatalf("expected env to override max lives, got %d", cfg.Game.MaxLives)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("expected env log level, got %q", cfg.Log.Level)
	}
	if cfg.Leaderboard.Backend != BackendRedis || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected leaderboard config: %+v", cfg)
	}
	if got := TTLDuration(cfg.Leaderboard.CacheTTL, time.Minute); got != 30*time.Second {
		t.Fatalf("expected 30s cache ttl, got %v", got)
	}
}

func TestValidateBackendRequirements(t *testing.T) {
	cfg := Default()
	cfg.Leaderboard.Backend = BackendPostgres
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected postgres url requirement")
	}
	cfg.Leaderboard.Backend = "etcd"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %v", got)
	}
}
