package models

// ActivityKind names the user action an XP award is for.
type ActivityKind string

const (
	ActivityMoodCheckin   ActivityKind = "mood_checkin"
	ActivityJournalEntry  ActivityKind = "journal_entry"
	ActivityAcademicTask  ActivityKind = "academic_task"
	ActivityCommunityPost ActivityKind = "community_post"
	ActivityCommunityVote ActivityKind = "community_vote"
)

// Valid reports whether k is a known activity.
func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityMoodCheckin, ActivityJournalEntry, ActivityAcademicTask,
		ActivityCommunityPost, ActivityCommunityVote:
		return true
	}
	return false
}

// ProgressStats is the progress ledger. Level is always xp/100+1.
type ProgressStats struct {
	XP              int `json:"xp"`
	Level           int `json:"level"`
	Streak          int `json:"streak"`
	JournalEntries  int `json:"journalEntries"`
	AcademicTasks   int `json:"academicTasks"`
	CommunityPosts  int `json:"communityPosts"`
	TotalActiveDays int `json:"totalActiveDays"`
}

// Badge is an achievement. Unlocked never goes back to false.
type Badge struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	Color           string `json:"color"`
	Requirement     int    `json:"requirement"`
	CurrentProgress int    `json:"currentProgress"`
	Unlocked        bool   `json:"unlocked"`
}

// Reward is what a single XP award produced.
type Reward struct {
	XPGained int  `json:"xpGained"`
	LevelUp  bool `json:"levelUp"`
	Level    int  `json:"level"`
	XP       int  `json:"xp"`
	// NewBadges lists badges unlocked by this award.
	NewBadges []string `json:"newBadges,omitempty"`
}

// ProgressOverview is the read model served by the progress endpoint.
type ProgressOverview struct {
	Stats         ProgressStats `json:"stats"`
	Badges        []Badge       `json:"badges"`
	XPToNextLevel int           `json:"xpToNextLevel"`
	LevelProgress int           `json:"levelProgress"`
}
