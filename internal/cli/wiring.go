package cli

import (
	"context"
	"fmt"
	"time"

	"calquiz-service/internal/app"
	"calquiz-service/internal/config"
	"calquiz-service/internal/infra/memory"
	pgstore "calquiz-service/internal/infra/postgres"
	redisstore "calquiz-service/internal/infra/redis"
	"calquiz-service/internal/infra/sqlite"
	"calquiz-service/internal/logger"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// runtime holds everything a command needs plus the cleanup for it.
type runtime struct {
	cfg     config.Config
	log     *zap.Logger
	service *app.GameService
	closers []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func newRuntime(ctx context.Context, configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, log: log}
	rt.closers = append(rt.closers, func() { _ = log.Sync() })

	kv, sessions, err := rt.openStores(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}

	if ttl := config.TTLDuration(cfg.Leaderboard.CacheTTL, 0); ttl > 0 {
		kv = memory.NewCachedStore(kv, ttl)
	}
	leaderboard := app.NewLeaderboardStore(kv, log)
	rt.service = app.NewGameService(sessions, leaderboard, log, app.WithMaxLives(cfg.Game.MaxLives))
	log.Info("game service ready",
		zap.String("backend", cfg.Leaderboard.Backend),
		zap.Int("max_lives", cfg.Game.MaxLives),
	)
	return rt, nil
}

func (r *runtime) openStores(ctx context.Context) (app.KeyValueStore, app.SessionRepository, error) {
	switch r.cfg.Leaderboard.Backend {
	case config.BackendMemory:
		return memory.NewKeyValueStore(), memory.NewSessionStore(), nil
	case config.BackendSQLite:
		store, err := sqlite.Open(r.cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		r.closers = append(r.closers, func() { _ = store.Close() })
		return store, memory.NewSessionStore(), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     r.cfg.Redis.Addr,
			Password: r.cfg.Redis.Password,
			DB:       r.cfg.Redis.DB,
		})
		r.closers = append(r.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		ttl := config.TTLDuration(r.cfg.Redis.TTL, 10*time.Minute)
		return redisstore.NewKeyValueStore(client), redisstore.NewSessionStore(client, ttl), nil
	case config.BackendPostgres:
		if err := runMigrationsWithConfig(ctx, r.cfg, r.log); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, r.cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		r.closers = append(r.closers, pool.Close)
		return pgstore.NewKeyValueStore(pool), memory.NewSessionStore(), nil
	default:
		return nil, nil, fmt.Errorf("unknown leaderboard backend %q", r.cfg.Leaderboard.Backend)
	}
}
