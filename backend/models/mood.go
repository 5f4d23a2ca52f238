package models

// MoodEntry is the single check-in of a calendar day.
type MoodEntry struct {
	Value int    `json:"value"`
	Date  string `json:"date"`
	Color string `json:"color"`
	Label string `json:"label"`
}

// TodaysMood answers whether the check-in for today is done.
type TodaysMood struct {
	Submitted bool       `json:"submitted"`
	Entry     *MoodEntry `json:"entry,omitempty"`
}
