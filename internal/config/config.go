package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Leaderboard backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT"`
	} `yaml:"server" envPrefix:"SERVER_"`
	Log struct {
		Level string `yaml:"level" env:"LEVEL"`
		File  string `yaml:"file" env:"FILE"`
	} `yaml:"log" envPrefix:"LOG_"`
	Game struct {
		MaxLives int `yaml:"max_lives" env:"MAX_LIVES"`
	} `yaml:"game" envPrefix:"GAME_"`
	Leaderboard struct {
		Backend  string `yaml:"backend" env:"BACKEND"`
		CacheTTL string `yaml:"cache_ttl" env:"CACHE_TTL"`
	} `yaml:"leaderboard" envPrefix:"LEADERBOARD_"`
	SQLite struct {
		Path string `yaml:"path" env:"PATH"`
	} `yaml:"sqlite" envPrefix:"SQLITE_"`
	Redis struct {
		Addr     string `yaml:"addr" env:"ADDR"`
		Password string `yaml:"password" env:"PASSWORD"`
		DB       int    `yaml:"db" env:"DB"`
		TTL      string `yaml:"ttl" env:"TTL"`
	} `yaml:"redis" envPrefix:"REDIS_"`
	Postgres struct {
		URL string `yaml:"url" env:"URL"`
	} `yaml:"postgres" envPrefix:"POSTGRES_"`
}

// Default returns the configuration used when no file is present: a local SQLite leaderboard.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Game.MaxLives = 3
	cfg.Leaderboard.Backend = BackendSQLite
	cfg.SQLite.Path = "calquiz.db"
	return cfg
}

// Load reads YAML config from path on top of Default, then applies CALQUIZ_* environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "CALQUIZ_"}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that the selected leaderboard backend has what it needs.
func (c Config) Validate() error {
	switch c.Leaderboard.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite backend requires sqlite.path")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis backend requires redis.addr")
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return errors.New("postgres backend requires postgres.url")
		}
	default:
		return fmt.Errorf("unknown leaderboard backend %q", c.Leaderboard.Backend)
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
