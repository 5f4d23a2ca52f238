package services

import (
	"context"
	"testing"
	"time"

	"mitra/backend/content"
	"mitra/backend/storage"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) AddDays(n int) { f.now = f.now.AddDate(0, 0, n) }

type testEnv struct {
	reg   *Registry
	clock *fakeClock
	kv    *storage.MemoryStore
}

func newTestEnv(t *testing.T, tweak ...func(*Options)) *testEnv {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)}
	opts := Options{
		Now:             clock.Now,
		Location:        time.UTC,
		MoodXP:          10,
		Journal:         DefaultJournalConfig,
		RetractAwardsXP: true,
	}
	for _, fn := range tweak {
		fn(&opts)
	}

	kv := storage.NewMemoryStore()
	catalog, err := content.Load()
	require.NoError(t, err)

	return &testEnv{reg: NewRegistry(kv, catalog, opts, nil), clock: clock, kv: kv}
}

// profile runs fn against user "1".
func (e *testEnv) profile(t *testing.T, fn func(ctx context.Context, p *Profile)) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.reg.With(ctx, "1", func(p *Profile) error {
		fn(ctx, p)
		return nil
	}))
}
