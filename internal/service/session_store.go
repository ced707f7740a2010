package service

import (
	"sync"
	"time"

	"github.com/civicsprep/civicsprep-backend/internal/model"
)

// SessionStore holds at most one in-progress practice session snapshot per
// user, in memory only. Snapshots let a user navigate away mid-quiz and
// later choose to resume exactly where they left off or discard and start
// fresh, never a blend of the two. State is intentionally lost on restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.SavedPracticeSession
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*model.SavedPracticeSession)}
}

// Save overwrites the user's snapshot. Last write wins.
func (s *SessionStore) Save(userID string, questions []model.PracticeQuestion, currentIndex int, answers []bool, correctCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = &model.SavedPracticeSession{
		Questions:    questions,
		CurrentIndex: currentIndex,
		Answers:      answers,
		CorrectCount: correctCount,
		StartedAt:    time.Now(),
	}
}

// Get returns the user's snapshot, or nil if none is active.
func (s *SessionStore) Get(userID string) *model.SavedPracticeSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

// Clear deletes the user's snapshot entirely.
func (s *SessionStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// HasActive reports whether the user has a saved snapshot.
func (s *SessionStore) HasActive(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[userID]
	return ok
}
