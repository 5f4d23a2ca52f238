package models

type VolunteerApplication struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Course         string `json:"course"`
	Year           string `json:"year"`
	Specialization string `json:"specialization"`
	Motivation     string `json:"motivation"`
	AppliedAt      string `json:"appliedAt"`
}
