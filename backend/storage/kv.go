// Package storage is the persistence port every store writes through. It is a
// flat string key-value space with no transactions across keys.
package storage

import "context"

// KV abstracts the persistence layer so memory, SQL and redis backends can be swapped.
type KV interface {
	// Get reports found=false for a missing key. Missing is never an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove is a no-op for a missing key.
	Remove(ctx context.Context, key string) error
	// Keys lists keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Closer is implemented by backends holding connections.
type Closer interface {
	Close() error
}

// Close releases kv if it holds resources.
func Close(kv KV) error {
	if c, ok := kv.(Closer); ok {
		return c.Close()
	}
	return nil
}
