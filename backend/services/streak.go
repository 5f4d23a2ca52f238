package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"mitra/backend/storage"
)

// StreakTracker counts consecutive calendar days with a mood check-in.
// The count lives in current_streak, the last qualifying day in
// streak_last_active.
type StreakTracker struct {
	kv    storage.KV
	clock Clock
}

func NewStreakTracker(kv storage.KV, clock Clock) *StreakTracker {
	return &StreakTracker{kv: kv, clock: clock}
}

// RecordActivity registers a qualifying activity for today. A second call on
// the same day changes nothing and returns firstToday=false.
func (s *StreakTracker) RecordActivity(ctx context.Context) (streak int, firstToday bool, err error) {
	count, last, hasLast, err := s.load(ctx)
	if err != nil {
		return 0, false, err
	}

	today := s.clock.Today()
	switch {
	case hasLast && last.Equal(today):
		if count < 1 {
			count = 1
		}
		return count, false, nil
	case hasLast && last.Equal(today.AddDate(0, 0, -1)):
		count++
	default:
		count = 1
	}

	if err := s.kv.Set(ctx, storage.KeyCurrentStreak, strconv.Itoa(count)); err != nil {
		return 0, false, err
	}
	if err := s.kv.Set(ctx, storage.KeyStreakLastActive, today.Format(DayLayout)); err != nil {
		return 0, false, err
	}
	return count, true, nil
}

// Current returns the live streak. It is zero once a full day was missed.
func (s *StreakTracker) Current(ctx context.Context) (int, error) {
	count, last, hasLast, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	if !hasLast {
		// written by something other than this tracker
		return count, nil
	}
	today := s.clock.Today()
	if last.Before(today.AddDate(0, 0, -1)) {
		return 0, nil
	}
	return count, nil
}

func (s *StreakTracker) load(ctx context.Context) (count int, last time.Time, hasLast bool, err error) {
	raw, found, err := s.kv.Get(ctx, storage.KeyCurrentStreak)
	if err != nil {
		return 0, time.Time{}, false, err
	}
	if found {
		// unparsable counts read as zero
		count, _ = strconv.Atoi(strings.TrimSpace(raw))
		if count < 0 {
			count = 0
		}
	}

	rawDay, found, err := s.kv.Get(ctx, storage.KeyStreakLastActive)
	if err != nil {
		return 0, time.Time{}, false, err
	}
	if found {
		last, hasLast = s.clock.ParseDay(rawDay)
	}
	return count, last, hasLast, nil
}
