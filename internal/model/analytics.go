package model

import "time"

// OverallStats summarizes a user's lifetime practice performance.
type OverallStats struct {
	TotalQuestions int     `json:"total_questions"`
	TotalCorrect   int     `json:"total_correct"`
	Accuracy       float64 `json:"accuracy"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
}

// RecentSession is a synthetic session reconstructed from attempt history.
// Attempts are grouped by calendar day and mode.
type RecentSession struct {
	Date     string      `json:"date"`
	Total    int         `json:"total"`
	Correct  int         `json:"correct"`
	Accuracy float64     `json:"accuracy"`
	Mode     AttemptMode `json:"mode"`
}

// AttemptOutcome is a single attempt result in a recent-history list.
type AttemptOutcome struct {
	Correct   bool      `json:"correct"`
	CreatedAt time.Time `json:"created_at"`
}

// ModuleStats summarizes recent performance within one practice mode.
type ModuleStats struct {
	Total          int              `json:"total"`
	Correct        int              `json:"correct"`
	Percentage     float64          `json:"percentage"`
	RecentAttempts []AttemptOutcome `json:"recent_attempts"`
}

// CategoryPerformance is per-category accuracy over a recent sample.
type CategoryPerformance struct {
	Category string  `json:"category"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// DailyAccuracy is one day's accuracy in a progress-over-time series.
type DailyAccuracy struct {
	Date     string  `json:"date"`
	Accuracy float64 `json:"accuracy"`
}
