package model

import (
	"time"

	"github.com/google/uuid"
)

// StudyStreak is the per-user daily study streak aggregate. It is mutated
// at most once per calendar day; a gap of more than one day resets the
// current count to 1 on the next activity.
type StudyStreak struct {
	UserID        uuid.UUID  `json:"user_id"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	LastStudyDate *time.Time `json:"last_study_date,omitempty"`
}
