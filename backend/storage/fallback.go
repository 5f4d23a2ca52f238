package storage

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

// Fallback mirrors a primary backend into memory. After the first primary
// failure it stops touching the primary and serves from memory only, so the
// app keeps working without durability. Degraded reports that state.
type Fallback struct {
	primary  KV
	mirror   *MemoryStore
	degraded atomic.Bool
	log      *zap.SugaredLogger
}

func NewFallback(primary KV, log *zap.SugaredLogger) *Fallback {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Fallback{primary: primary, mirror: NewMemoryStore(), log: log}
}

// Degraded is true once the primary has failed.
func (f *Fallback) Degraded() bool {
	return f.degraded.Load()
}

// fail degrades unless the caller's ctx ended, in which case the primary is
// still trusted and ctx.Err() is returned.
func (f *Fallback) fail(ctx context.Context, op, key string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if f.degraded.CompareAndSwap(false, true) {
		f.log.Warnw("storage unavailable, continuing in memory only",
			"op", op, "key", key, "error", err)
	}
	return nil
}

func (f *Fallback) Get(ctx context.Context, key string) (string, bool, error) {
	if !f.Degraded() {
		v, ok, err := f.primary.Get(ctx, key)
		if err == nil {
			if ok {
				_ = f.mirror.Set(ctx, key, v)
			} else {
				_ = f.mirror.Remove(ctx, key)
			}
			return v, ok, nil
		}
		if err := f.fail(ctx, "get", key, err); err != nil {
			return "", false, err
		}
	}
	return f.mirror.Get(ctx, key)
}

func (f *Fallback) Set(ctx context.Context, key, value string) error {
	if !f.Degraded() {
		if err := f.primary.Set(ctx, key, value); err != nil {
			if err := f.fail(ctx, "set", key, err); err != nil {
				return err
			}
		}
	}
	return f.mirror.Set(ctx, key, value)
}

func (f *Fallback) Remove(ctx context.Context, key string) error {
	if !f.Degraded() {
		if err := f.primary.Remove(ctx, key); err != nil {
			if err := f.fail(ctx, "remove", key, err); err != nil {
				return err
			}
		}
	}
	return f.mirror.Remove(ctx, key)
}

func (f *Fallback) Keys(ctx context.Context, prefix string) ([]string, error) {
	if !f.Degraded() {
		keys, err := f.primary.Keys(ctx, prefix)
		if err == nil {
			return keys, nil
		}
		if err := f.fail(ctx, "keys", prefix, err); err != nil {
			return nil, err
		}
	}
	return f.mirror.Keys(ctx, prefix)
}

func (f *Fallback) Close() error {
	return Close(f.primary)
}
