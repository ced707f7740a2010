package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/civicsprep/civicsprep-backend/internal/model"
	"github.com/civicsprep/civicsprep-backend/internal/repository"
)

// attemptWriter is the slice of AttemptRepository the sync path needs.
type attemptWriter interface {
	Create(ctx context.Context, a *model.Attempt) error
}

// pendingQueue is the durable per-user queue of attempts awaiting sync.
type pendingQueue interface {
	Load(ctx context.Context, userID string) ([]model.PendingAttempt, error)
	Append(ctx context.Context, userID string, attempt model.PendingAttempt) error
	Replace(ctx context.Context, userID string, pending []model.PendingAttempt) error
	Count(ctx context.Context, userID string) (int, error)
}

// streakUpdater is the best-effort streak hook fired after successful syncs.
type streakUpdater interface {
	UpdateStreak(ctx context.Context, userID uuid.UUID) error
}

// lastSessionCache caches the most recent completed session summary.
type lastSessionCache interface {
	Get(ctx context.Context, userID string) (*model.PracticeSessionResult, error)
	Set(ctx context.Context, userID string, result *model.PracticeSessionResult) error
}

// AttemptResult reports the outcome of recording one attempt. Recording
// never raises past this result: a failed write queues the attempt and
// the caller's quiz flow continues.
type AttemptResult struct {
	Success bool   `json:"success"`
	Queued  bool   `json:"queued"`
	Err     string `json:"error,omitempty"`
}

// SessionSyncResult aggregates a session-wide bulk sync. Partial failure
// is a normal, reportable outcome.
type SessionSyncResult struct {
	Success bool     `json:"success"`
	Synced  int      `json:"synced"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// RetryResult reports one pass over the pending queue.
type RetryResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// SyncService persists attempts with write-through semantics: each answer
// is written immediately, failures land in a durable per-user queue, and a
// retry pass later drains exactly the entries that sync. Delivery is
// at-least-once; an attempt that partially succeeded before a crash may be
// recorded twice on retry.
type SyncService struct {
	attemptRepo attemptWriter
	queue       pendingQueue
	streaks     streakUpdater
	lastSession lastSessionCache
	publisher   progressPublisher
	log         zerolog.Logger

	// queueMu serializes every read-modify-write on the pending queue:
	// appends during concurrent session fan-out and the load-rebuild
	// window of a retry pass.
	queueMu sync.Mutex

	now func() time.Time
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	attemptRepo *repository.AttemptRepository,
	queue *repository.PendingQueueRepository,
	streaks *StreakService,
	lastSession *repository.LastSessionRepository,
	publisher *RedisProgressPublisher,
	log zerolog.Logger,
) *SyncService {
	return &SyncService{
		attemptRepo: attemptRepo,
		queue:       queue,
		streaks:     streaks,
		lastSession: lastSession,
		publisher:   publisher,
		log:         log.With().Str("component", "sync_service").Logger(),
		now:         time.Now,
	}
}

// RecordAttempt writes one attempt for the user. On write failure the
// attempt is appended to the pending queue and the failure is reported in
// the result, never returned as an error.
func (s *SyncService) RecordAttempt(ctx context.Context, userID, questionID uuid.UUID, correct bool, userAnswer string, mode model.AttemptMode) AttemptResult {
	if mode == "" {
		mode = model.AttemptModeMCQ
	}

	attempt := &model.Attempt{
		UserID:     userID,
		QuestionID: questionID,
		Mode:       mode,
		Correct:    correct,
		UserAnswer: userAnswer,
		CreatedAt:  s.now(),
	}

	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		s.log.Error().Err(err).Str("question_id", questionID.String()).Msg("Failed to save attempt, queueing for retry")
		s.enqueue(ctx, userID, model.PendingAttempt{
			QuestionID: questionID,
			Correct:    correct,
			UserAnswer: userAnswer,
			Mode:       mode,
		})
		return AttemptResult{Success: false, Queued: true, Err: err.Error()}
	}

	// Streak update is best-effort; its failure must never block recording.
	if err := s.streaks.UpdateStreak(ctx, userID); err != nil {
		s.log.Error().Err(err).Msg("Failed to update streak")
	}

	s.publish(ctx, userID, model.ProgressEvent{Type: model.EventAttemptSynced, Synced: 1})

	return AttemptResult{Success: true}
}

// RecordSession records every attempt of a just-completed session
// concurrently and aggregates the outcomes. It also refreshes the cached
// last-session summary. Answers and userAnswers are index-aligned with
// questions; missing entries default to incorrect / empty.
func (s *SyncService) RecordSession(ctx context.Context, userID uuid.UUID, questionIDs []uuid.UUID, answers []bool, userAnswers []string) SessionSyncResult {
	results := make([]AttemptResult, len(questionIDs))

	var wg sync.WaitGroup
	for i, qid := range questionIDs {
		correct := false
		if i < len(answers) {
			correct = answers[i]
		}
		answer := ""
		if i < len(userAnswers) {
			answer = userAnswers[i]
		}

		wg.Add(1)
		go func(i int, qid uuid.UUID, correct bool, answer string) {
			defer wg.Done()
			results[i] = s.RecordAttempt(ctx, userID, qid, correct, answer, model.AttemptModeMCQ)
		}(i, qid, correct, answer)
	}
	wg.Wait()

	out := SessionSyncResult{}
	for _, r := range results {
		if r.Success {
			out.Synced++
		} else {
			out.Failed++
			if r.Err != "" {
				out.Errors = append(out.Errors, r.Err)
			}
		}
	}
	out.Success = out.Synced > 0

	s.cacheLastSession(ctx, userID, answers, len(questionIDs))

	return out
}

// RetryPending drains the user's pending queue: all queued attempts are
// written concurrently, the entries that synced are removed from the
// queue, and one streak update fires if anything synced. Attempts queued
// while the pass is in flight survive it.
func (s *SyncService) RetryPending(ctx context.Context, userID uuid.UUID) (RetryResult, error) {
	uid := userID.String()

	pending, err := s.queue.Load(ctx, uid)
	if err != nil {
		return RetryResult{}, err
	}
	if len(pending) == 0 {
		return RetryResult{}, nil
	}

	failed := make([]bool, len(pending))

	var wg sync.WaitGroup
	for i, p := range pending {
		mode := p.Mode
		if mode == "" {
			mode = model.AttemptModeMCQ
		}
		attempt := &model.Attempt{
			UserID:     userID,
			QuestionID: p.QuestionID,
			Mode:       mode,
			Correct:    p.Correct,
			UserAnswer: p.UserAnswer,
			CreatedAt:  s.now(),
		}

		wg.Add(1)
		go func(i int, attempt *model.Attempt) {
			defer wg.Done()
			if err := s.attemptRepo.Create(ctx, attempt); err != nil {
				failed[i] = true
			}
		}(i, attempt)
	}
	wg.Wait()

	var synced []model.PendingAttempt
	for i, p := range pending {
		if !failed[i] {
			synced = append(synced, p)
		}
	}

	// Rebuild from a fresh read under the queue lock. Removing only the
	// entries this pass synced preserves attempts that were enqueued while
	// the writes above were in flight.
	s.queueMu.Lock()
	current, err := s.queue.Load(ctx, uid)
	if err != nil {
		s.queueMu.Unlock()
		return RetryResult{}, err
	}
	remaining := withoutSynced(current, synced)
	err = s.queue.Replace(ctx, uid, remaining)
	s.queueMu.Unlock()
	if err != nil {
		return RetryResult{}, err
	}

	result := RetryResult{
		Synced: len(synced),
		Failed: len(pending) - len(synced),
	}

	if result.Synced > 0 {
		if err := s.streaks.UpdateStreak(ctx, userID); err != nil {
			s.log.Error().Err(err).Msg("Failed to update streak after retry")
		}
		s.publish(ctx, userID, model.ProgressEvent{
			Type:   model.EventPendingRetried,
			Synced: result.Synced,
			Failed: result.Failed,
		})
	}

	return result, nil
}

// PendingCount returns how many attempts await retry for the user.
func (s *SyncService) PendingCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.queue.Count(ctx, userID.String())
}

// LastSession returns the cached summary of the user's most recent
// completed session, or nil if none is cached.
func (s *SyncService) LastSession(ctx context.Context, userID uuid.UUID) (*model.PracticeSessionResult, error) {
	return s.lastSession.Get(ctx, userID.String())
}

// withoutSynced removes one queue occurrence per synced entry, keeping
// everything else, including duplicates and entries appended after the
// retry pass loaded its snapshot.
func withoutSynced(current, synced []model.PendingAttempt) []model.PendingAttempt {
	var remaining []model.PendingAttempt
	used := make([]bool, len(synced))

outer:
	for _, entry := range current {
		for i, done := range synced {
			if !used[i] && entry == done {
				used[i] = true
				continue outer
			}
		}
		remaining = append(remaining, entry)
	}
	return remaining
}

func (s *SyncService) enqueue(ctx context.Context, userID uuid.UUID, p model.PendingAttempt) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	if err := s.queue.Append(ctx, userID.String(), p); err != nil {
		s.log.Error().Err(err).Msg("Failed to queue attempt for sync")
	}
}

func (s *SyncService) cacheLastSession(ctx context.Context, userID uuid.UUID, answers []bool, total int) {
	if total == 0 {
		return
	}
	score := 0
	for _, a := range answers {
		if a {
			score++
		}
	}
	result := &model.PracticeSessionResult{
		Score:       score,
		Total:       total,
		Percentage:  int(math.Round(float64(score) / float64(total) * 100)),
		CompletedAt: s.now(),
	}
	if err := s.lastSession.Set(ctx, userID.String(), result); err != nil {
		s.log.Error().Err(err).Msg("Failed to cache last session result")
	}
}

func (s *SyncService) publish(ctx context.Context, userID uuid.UUID, event model.ProgressEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProgress(ctx, userID.String(), event); err != nil {
		s.log.Debug().Err(err).Msg("Failed to publish progress event")
	}
}
