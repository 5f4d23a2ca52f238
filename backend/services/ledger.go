package services

import (
	"context"
	"fmt"

	"mitra/backend/content"
	"mitra/backend/models"
	"mitra/backend/storage"

	"go.uber.org/zap"
)

const xpPerLevel = 100

// LevelFor derives the level from total xp.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/xpPerLevel + 1
}

// XPToNextLevel is the xp still missing for the next level.
func XPToNextLevel(xp int) int {
	return LevelFor(xp)*xpPerLevel - xp
}

// LevelProgress is the percentage of the current level already earned.
func LevelProgress(xp int) int {
	return (xp - (LevelFor(xp)-1)*xpPerLevel) * 100 / xpPerLevel
}

// badgeInputs is everything a badge progress rule may look at.
type badgeInputs struct {
	stats     models.ProgressStats
	moodToday bool
}

var badgeProgress = map[string]func(badgeInputs) int{
	"first_mood": func(in badgeInputs) int {
		if in.moodToday {
			return 1
		}
		return 0
	},
	"streak_7":          func(in badgeInputs) int { return min(in.stats.Streak, 7) },
	"journal_master":    func(in badgeInputs) int { return in.stats.JournalEntries },
	"academic_achiever": func(in badgeInputs) int { return in.stats.AcademicTasks },
	"community_helper":  func(in badgeInputs) int { return in.stats.CommunityPosts },
}

// ProgressLedger owns xp, level, activity counters and badges. AddXP is the
// only writer.
type ProgressLedger struct {
	kv     storage.KV
	clock  Clock
	streak *StreakTracker
	defs   []content.BadgeDefinition
	log    *zap.SugaredLogger
}

func NewProgressLedger(kv storage.KV, clock Clock, streak *StreakTracker, defs []content.BadgeDefinition, log *zap.SugaredLogger) *ProgressLedger {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ProgressLedger{kv: kv, clock: clock, streak: streak, defs: defs, log: log}
}

// AddXP records one qualifying action. Every call adds, so callers must make
// exactly one call per action.
func (l *ProgressLedger) AddXP(ctx context.Context, amount int, kind models.ActivityKind) (models.Reward, error) {
	if amount <= 0 {
		return models.Reward{}, ErrInvalidXPAmount
	}
	if !kind.Valid() {
		return models.Reward{}, fmt.Errorf("%w: %q", ErrUnknownActivity, kind)
	}

	stats, err := l.Stats(ctx)
	if err != nil {
		return models.Reward{}, err
	}
	streak, err := l.streak.Current(ctx)
	if err != nil {
		return models.Reward{}, err
	}

	oldLevel := LevelFor(stats.XP)
	stats.XP += amount
	stats.Level = LevelFor(stats.XP)

	switch kind {
	case models.ActivityJournalEntry:
		stats.JournalEntries++
	case models.ActivityAcademicTask:
		stats.AcademicTasks++
	case models.ActivityCommunityPost:
		stats.CommunityPosts++
	case models.ActivityMoodCheckin:
		stats.TotalActiveDays = max(stats.TotalActiveDays, max(streak, 1))
	}
	stats.Streak = streak

	badges, unlocked, err := l.evaluateBadges(ctx, stats)
	if err != nil {
		return models.Reward{}, err
	}

	if err := storage.SaveJSON(ctx, l.kv, storage.KeyProgressStats, stats); err != nil {
		return models.Reward{}, fmt.Errorf("save progress: %w", err)
	}
	if err := storage.SaveJSON(ctx, l.kv, storage.KeyBadges, badges); err != nil {
		return models.Reward{}, fmt.Errorf("save badges: %w", err)
	}

	reward := models.Reward{
		XPGained:  amount,
		LevelUp:   stats.Level > oldLevel,
		Level:     stats.Level,
		XP:        stats.XP,
		NewBadges: unlocked,
	}

	l.log.Debugw("xp awarded", "amount", amount, "kind", kind, "xp", stats.XP)
	if reward.LevelUp {
		l.log.Infow("level up", "level", stats.Level, "xp", stats.XP)
	}
	for _, id := range unlocked {
		l.log.Infow("badge unlocked", "badge", id)
	}
	return reward, nil
}

// Stats loads the ledger, or the level 1 default when nothing is stored.
func (l *ProgressLedger) Stats(ctx context.Context) (models.ProgressStats, error) {
	stats := models.ProgressStats{Level: 1}
	if _, err := storage.LoadJSON(ctx, l.kv, storage.KeyProgressStats, &stats); err != nil {
		return models.ProgressStats{}, err
	}
	stats.Level = LevelFor(stats.XP)
	return stats, nil
}

// Badges returns every defined badge merged with stored progress.
func (l *ProgressLedger) Badges(ctx context.Context) ([]models.Badge, error) {
	stored, err := l.storedBadges(ctx)
	if err != nil {
		return nil, err
	}
	badges := make([]models.Badge, 0, len(l.defs))
	for _, def := range l.defs {
		b := def.Badge()
		if old, ok := stored[def.ID]; ok {
			b.CurrentProgress = old.CurrentProgress
			b.Unlocked = old.Unlocked
		}
		badges = append(badges, b)
	}
	return badges, nil
}

// Overview is the read model for the progress screen. Streak is reported
// live, so a broken streak shows as zero before the next award.
func (l *ProgressLedger) Overview(ctx context.Context) (models.ProgressOverview, error) {
	stats, err := l.Stats(ctx)
	if err != nil {
		return models.ProgressOverview{}, err
	}
	if stats.Streak, err = l.streak.Current(ctx); err != nil {
		return models.ProgressOverview{}, err
	}
	badges, err := l.Badges(ctx)
	if err != nil {
		return models.ProgressOverview{}, err
	}
	return models.ProgressOverview{
		Stats:         stats,
		Badges:        badges,
		XPToNextLevel: XPToNextLevel(stats.XP),
		LevelProgress: LevelProgress(stats.XP),
	}, nil
}

func (l *ProgressLedger) evaluateBadges(ctx context.Context, stats models.ProgressStats) ([]models.Badge, []string, error) {
	stored, err := l.storedBadges(ctx)
	if err != nil {
		return nil, nil, err
	}
	_, moodToday, err := l.kv.Get(ctx, storage.MoodKey(l.clock.Now()))
	if err != nil {
		return nil, nil, err
	}
	in := badgeInputs{stats: stats, moodToday: moodToday}

	var unlocked []string
	badges := make([]models.Badge, 0, len(l.defs))
	for _, def := range l.defs {
		b := def.Badge()
		if rule, ok := badgeProgress[def.ID]; ok {
			b.CurrentProgress = rule(in)
		}
		wasUnlocked := stored[def.ID].Unlocked
		b.Unlocked = wasUnlocked || b.CurrentProgress >= b.Requirement
		if b.Unlocked && !wasUnlocked {
			unlocked = append(unlocked, b.ID)
		}
		badges = append(badges, b)
	}
	return badges, unlocked, nil
}

func (l *ProgressLedger) storedBadges(ctx context.Context) (map[string]models.Badge, error) {
	var list []models.Badge
	if _, err := storage.LoadJSON(ctx, l.kv, storage.KeyBadges, &list); err != nil {
		return nil, err
	}
	byID := make(map[string]models.Badge, len(list))
	for _, b := range list {
		byID[b.ID] = b
	}
	return byID, nil
}
