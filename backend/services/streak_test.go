package services

import (
	"context"
	"testing"
	"time"

	"mitra/backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreakTracker(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	kv := storage.NewScoped(env.kv, "1")
	tracker := NewStreakTracker(kv, NewClock(env.clock.Now, time.UTC))

	current, err := tracker.Current(ctx)
	require.NoError(t, err)
	assert.Zero(t, current)

	streak, first, err := tracker.RecordActivity(ctx)
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, 1, streak)

	streak, first, err = tracker.RecordActivity(ctx)
	require.NoError(t, err)
	assert.False(t, first, "same day")
	assert.Equal(t, 1, streak)

	env.clock.AddDays(1)
	streak, _, err = tracker.RecordActivity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)

	raw, _, _ := kv.Get(ctx, storage.KeyCurrentStreak)
	assert.Equal(t, "2", raw)
	day, _, _ := kv.Get(ctx, storage.KeyStreakLastActive)
	assert.Equal(t, "2024-03-06", day)

	env.clock.AddDays(1)
	current, err = tracker.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, current, "yesterday still counts")

	env.clock.AddDays(1)
	current, err = tracker.Current(ctx)
	require.NoError(t, err)
	assert.Zero(t, current, "a missed day breaks the streak")

	streak, first, err = tracker.RecordActivity(ctx)
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, 1, streak)
}

func TestStreakTrackerReadsExternalCount(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, storage.KeyCurrentStreak, "4"))

	tracker := NewStreakTracker(kv, NewClock(nil, nil))
	current, err := tracker.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, current)

	require.NoError(t, kv.Set(ctx, storage.KeyCurrentStreak, "garbage"))
	current, err = tracker.Current(ctx)
	require.NoError(t, err)
	assert.Zero(t, current)
}
