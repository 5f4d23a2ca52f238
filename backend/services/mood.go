package services

import (
	"context"

	"mitra/backend/models"
	"mitra/backend/storage"
)

// ClassifyMood maps a 0..100 value to its label and color.
func ClassifyMood(value int) (label, color string) {
	switch {
	case value >= 80:
		return "Excellent", "emerald"
	case value >= 60:
		return "Good", "primary"
	case value >= 40:
		return "Neutral", "violet"
	case value >= 20:
		return "Low", "gold"
	default:
		return "Critical", "rose"
	}
}

// MoodStore keeps at most one entry per calendar day under mood_<day>.
type MoodStore struct {
	kv     storage.KV
	clock  Clock
	streak *StreakTracker
	ledger *ProgressLedger
	xp     int
}

func NewMoodStore(kv storage.KV, clock Clock, streak *StreakTracker, ledger *ProgressLedger, xp int) *MoodStore {
	return &MoodStore{kv: kv, clock: clock, streak: streak, ledger: ledger, xp: xp}
}

// RecordMood writes today's entry, replacing any earlier one. The first
// check-in of a day advances the streak and earns xp. The returned reward is
// nil when nothing was awarded.
func (m *MoodStore) RecordMood(ctx context.Context, value int) (models.MoodEntry, *models.Reward, error) {
	if value < 0 || value > 100 {
		return models.MoodEntry{}, nil, invalid("value", "mood must be between 0 and 100")
	}

	now := m.clock.Now()
	label, color := ClassifyMood(value)
	entry := models.MoodEntry{
		Value: value,
		Date:  now.Format(storage.MoodDayLayout),
		Color: color,
		Label: label,
	}
	if err := storage.SaveJSON(ctx, m.kv, storage.MoodKey(now), entry); err != nil {
		return models.MoodEntry{}, nil, err
	}

	_, firstToday, err := m.streak.RecordActivity(ctx)
	if err != nil {
		return entry, nil, err
	}
	if !firstToday || m.xp <= 0 {
		return entry, nil, nil
	}

	reward, err := m.ledger.AddXP(ctx, m.xp, models.ActivityMoodCheckin)
	if err != nil {
		return entry, nil, err
	}
	return entry, &reward, nil
}

// TodaysMood returns nil when today has no entry.
func (m *MoodStore) TodaysMood(ctx context.Context) (*models.MoodEntry, error) {
	return m.load(ctx, storage.MoodKey(m.clock.Now()))
}

// ResetTodaysMood deletes today's entry so it can be submitted again.
func (m *MoodStore) ResetTodaysMood(ctx context.Context) error {
	return m.kv.Remove(ctx, storage.MoodKey(m.clock.Now()))
}

// History returns the entries of the last days calendar days, oldest first.
// Days without a check-in are skipped.
func (m *MoodStore) History(ctx context.Context, days int) ([]models.MoodEntry, error) {
	if days < 1 {
		days = 1
	}
	if days > 366 {
		days = 366
	}

	today := m.clock.Today()
	entries := make([]models.MoodEntry, 0, days)
	for i := days - 1; i >= 0; i-- {
		entry, err := m.load(ctx, storage.MoodKey(today.AddDate(0, 0, -i)))
		if err != nil {
			return nil, err
		}
		if entry != nil {
			entries = append(entries, *entry)
		}
	}
	return entries, nil
}

func (m *MoodStore) load(ctx context.Context, key string) (*models.MoodEntry, error) {
	var entry models.MoodEntry
	found, err := storage.LoadJSON(ctx, m.kv, key, &entry)
	if err != nil || !found {
		return nil, err
	}
	return &entry, nil
}
