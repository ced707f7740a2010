package model

import "time"

// SavedPracticeSession is a volatile snapshot of an in-progress quiz,
// held in memory only so the user can navigate away and resume. Cleared
// entirely on completion or explicit abandonment; never persisted across
// process restart.
type SavedPracticeSession struct {
	Questions    []PracticeQuestion `json:"questions"`
	CurrentIndex int                `json:"current_index"`
	Answers      []bool             `json:"answers"`
	CorrectCount int                `json:"correct_count"`
	StartedAt    time.Time          `json:"started_at"`
}

// SaveSessionRequest is the payload for snapshotting an in-progress session.
type SaveSessionRequest struct {
	Questions    []PracticeQuestion `json:"questions" binding:"required,min=1"`
	CurrentIndex int                `json:"current_index" binding:"min=0"`
	Answers      []bool             `json:"answers"`
	CorrectCount int                `json:"correct_count" binding:"min=0"`
}

// PracticeSessionResult is the cached summary of the last completed
// session, used as a fast local fallback when the remote aggregate is
// unreachable. Staleness is an accepted tradeoff.
type PracticeSessionResult struct {
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Percentage  int       `json:"percentage"`
	CompletedAt time.Time `json:"completed_at"`
}
