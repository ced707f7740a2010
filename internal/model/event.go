package model

import "time"

// ProgressEventType enumerates events pushed to the client over the
// progress stream.
type ProgressEventType string

const (
	EventAttemptSynced  ProgressEventType = "attempt_synced"
	EventPendingRetried ProgressEventType = "pending_retried"
	EventStudyReminder  ProgressEventType = "study_reminder"
)

// ProgressEvent is one entry on a user's progress event channel.
type ProgressEvent struct {
	Type      ProgressEventType `json:"type"`
	Synced    int               `json:"synced,omitempty"`
	Failed    int               `json:"failed,omitempty"`
	Message   string            `json:"message,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
