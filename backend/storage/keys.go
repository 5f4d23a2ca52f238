package storage

import "time"

// Keys inside a profile namespace.
const (
	KeyCurrentUser       = "mitra-user"
	KeyTheme             = "mitra_theme"
	KeyThemeLegacy       = "mitra-theme"
	KeyAccessibilityMode = "mitra-accessibility-mode"
	KeyInstitution       = "mitra_institution"
	KeyPasskey           = "mitra_passkey"
	KeyJournalEntries    = "mitra-journal-entries"
	KeyAcademicTasks     = "mitra-academic-tasks"
	KeyProgressStats     = "mitra-gamification-stats"
	KeyBadges            = "mitra-gamification-badges"
	KeyCurrentStreak     = "current_streak"
	KeyStreakLastActive  = "streak_last_active"
	KeyPersonalityChat   = "mitra-personality-chat"
	KeyMentorChat        = "mitra-mentor-chat"
	KeyVolunteerApps     = "volunteer-applications"

	MoodKeyPrefix = "mood_"
)

// KeyDemoCleared is global, outside every namespace.
const KeyDemoCleared = "mitra_demo_cleared"

// MoodDayLayout renders the human readable day used in mood keys, e.g. "Tue Mar 05 2024".
const MoodDayLayout = "Mon Jan 02 2006"

// MoodKey returns the mood key for the calendar day of t.
func MoodKey(t time.Time) string {
	return MoodKeyPrefix + t.Format(MoodDayLayout)
}

// IsThemeKey reports whether key holds the theme preference, which survives
// the first-run reset.
func IsThemeKey(key string) bool {
	return key == KeyTheme || key == KeyThemeLegacy
}
