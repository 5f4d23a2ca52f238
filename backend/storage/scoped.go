package storage

import (
	"context"
	"strings"
)

const profilePrefix = "profile/"

// Scoped confines a KV to one profile namespace, the way a browser profile
// owns its own local storage.
type Scoped struct {
	inner  KV
	prefix string
}

func NewScoped(inner KV, namespace string) *Scoped {
	return &Scoped{inner: inner, prefix: ProfilePrefix(namespace)}
}

// ProfilePrefix is the raw key prefix of a namespace.
func ProfilePrefix(namespace string) string {
	return profilePrefix + namespace + "/"
}

func (s *Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *Scoped) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.prefix+key)
}

func (s *Scoped) Keys(ctx context.Context, prefix string) ([]string, error) {
	raw, err := s.inner.Keys(ctx, s.prefix+prefix)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, strings.TrimPrefix(k, s.prefix))
	}
	return keys, nil
}
