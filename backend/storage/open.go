package storage

import (
	"context"
	"fmt"

	"mitra/backend/config"
	"mitra/backend/utils"

	"go.uber.org/zap"
)

// Open builds the backend named by cfg.StorageDriver. Durable backends are
// wrapped in Fallback.
func Open(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (KV, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return NewMemoryStore(), nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := utils.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		store := NewGormStore(db)
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return NewFallback(store, log), nil

	case config.DriverRedis:
		store, err := NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return NewFallback(store, log), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// DegradedReporter is implemented by backends that can lose durability at runtime.
type DegradedReporter interface {
	Degraded() bool
}

// IsDegraded reports whether kv runs without its durable backend.
func IsDegraded(kv KV) bool {
	if d, ok := kv.(DegradedReporter); ok {
		return d.Degraded()
	}
	return false
}
