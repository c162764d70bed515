package app

import (
	"context"
	"log/slog"

	"github.com/five82/farefinder/internal/cache"
	"github.com/five82/farefinder/internal/config"
)

// newCache builds the response cache described by cfg. An unreachable
// Redis server degrades to the in-memory cache.
func newCache(ctx context.Context, cfg config.Cache, logger *slog.Logger) cache.Cache {
	if !cfg.Enabled {
		return cache.NewNoOp()
	}
	switch cfg.Backend {
	case config.BackendRedis:
		r, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		})
		if err != nil {
			logger.Warn("redis unavailable, using memory cache", "addr", cfg.RedisAddr, "error", err)
			return cache.NewMemory(cfg.TTL)
		}
		logger.Info("response cache ready", "backend", config.BackendRedis, "addr", cfg.RedisAddr, "ttl", cfg.TTL)
		return r
	default:
		logger.Info("response cache ready", "backend", config.BackendMemory, "ttl", cfg.TTL)
		return cache.NewMemory(cfg.TTL)
	}
}
