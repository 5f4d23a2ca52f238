package storage

import (
	"context"
	"fmt"
	"strings"
)

// ResetDemoData wipes demo content the first time a deployment starts. When
// KeyDemoCleared is absent every key except theme preferences is removed and
// the flag is set. It returns the number of removed keys.
func ResetDemoData(ctx context.Context, kv KV) (int, error) {
	_, cleared, err := kv.Get(ctx, KeyDemoCleared)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", KeyDemoCleared, err)
	}
	if cleared {
		return 0, nil
	}

	keys, err := kv.Keys(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list keys: %w", err)
	}

	removed := 0
	for _, key := range keys {
		if IsThemeKey(baseKey(key)) {
			continue
		}
		if err := kv.Remove(ctx, key); err != nil {
			return removed, err
		}
		removed++
	}

	if err := kv.Set(ctx, KeyDemoCleared, "true"); err != nil {
		return removed, err
	}
	return removed, nil
}

// ForceResetDemoData clears the flag so the next ResetDemoData runs again.
func ForceResetDemoData(ctx context.Context, kv KV) (int, error) {
	if err := kv.Remove(ctx, KeyDemoCleared); err != nil {
		return 0, err
	}
	return ResetDemoData(ctx, kv)
}

// baseKey drops the "profile/<id>/" part of a namespaced key.
func baseKey(key string) string {
	if !strings.HasPrefix(key, profilePrefix) {
		return key
	}
	rest := strings.TrimPrefix(key, profilePrefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[i+1:]
	}
	return rest
}
