package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptMode tags which study module produced an attempt.
type AttemptMode string

const (
	AttemptModeMCQ       AttemptMode = "mcq"
	AttemptModeFlashcard AttemptMode = "flashcard"
)

// Attempt is one recorded answer to one question by one user. The client
// only appends attempts; they are never mutated or deleted.
type Attempt struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"user_id"`
	QuestionID uuid.UUID   `json:"question_id"`
	Mode       AttemptMode `json:"mode"`
	Correct    bool        `json:"correct"`
	UserAnswer string      `json:"user_answer"`
	CreatedAt  time.Time   `json:"created_at"`
}

// PendingAttempt mirrors an Attempt that failed to persist and sits in the
// durable per-user sync queue until a retry pass succeeds.
type PendingAttempt struct {
	QuestionID uuid.UUID   `json:"question_id"`
	Correct    bool        `json:"correct"`
	UserAnswer string      `json:"user_answer"`
	Mode       AttemptMode `json:"mode"`
}

// RecordAttemptRequest is the payload for recording a single answer.
type RecordAttemptRequest struct {
	QuestionID string `json:"question_id" binding:"required,uuid"`
	Correct    *bool  `json:"correct" binding:"required"`
	UserAnswer string `json:"user_answer" binding:"max=2000"`
	Mode       string `json:"mode" binding:"omitempty,oneof=mcq flashcard"`
}

// RecordSessionRequest is the payload for bulk-recording a completed
// practice session. Answers and UserAnswers are index-aligned with Questions.
type RecordSessionRequest struct {
	Questions   []SessionQuestion `json:"questions" binding:"required,min=1,dive"`
	Answers     []bool            `json:"answers" binding:"required"`
	UserAnswers []string          `json:"user_answers"`
}

// SessionQuestion is the minimal per-question payload needed to record a
// session attempt.
type SessionQuestion struct {
	ID string `json:"id" binding:"required,uuid"`
}
