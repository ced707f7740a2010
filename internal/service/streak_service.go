package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/civicsprep/civicsprep-backend/internal/model"
	"github.com/civicsprep/civicsprep-backend/internal/repository"
)

// streakStore is the slice of StreakRepository the service needs.
type streakStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.StudyStreak, error)
	Upsert(ctx context.Context, s *model.StudyStreak) error
}

// StreakService derives a daily study streak from recorded activity.
// Streaks advance at most once per calendar day; a gap of more than one
// day resets the current count. All reads degrade to zero-valued defaults
// when the study_streaks table has not been migrated yet.
type StreakService struct {
	streakRepo streakStore
	log        zerolog.Logger

	// now is injectable for transition tests.
	now func() time.Time
}

// NewStreakService creates a new StreakService.
func NewStreakService(streakRepo *repository.StreakRepository, log zerolog.Logger) *StreakService {
	return &StreakService{
		streakRepo: streakRepo,
		log:        log.With().Str("component", "streak_service").Logger(),
		now:        time.Now,
	}
}

// UpdateStreak records study activity for today and advances the streak
// state machine. It is best-effort: callers treat a returned error as
// loggable, never as a reason to fail the surrounding flow.
func (s *StreakService) UpdateStreak(ctx context.Context, userID uuid.UUID) error {
	today := dateOnly(s.now())

	existing, err := s.streakRepo.Get(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrStreakTableMissing):
		s.log.Warn().Msg("study_streaks table not found, run the database migration")
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		// First ever activity for this user.
		return s.upsertSoft(ctx, &model.StudyStreak{
			UserID:        userID,
			CurrentStreak: 1,
			LongestStreak: 1,
			LastStudyDate: &today,
		})
	case err != nil:
		return err
	}

	if existing.LastStudyDate != nil && sameDay(*existing.LastStudyDate, today) {
		return nil // Already counted today.
	}

	current := 1
	if existing.LastStudyDate != nil && sameDay(*existing.LastStudyDate, today.AddDate(0, 0, -1)) {
		current = existing.CurrentStreak + 1
	}

	longest := existing.LongestStreak
	if current > longest {
		longest = current
	}

	return s.upsertSoft(ctx, &model.StudyStreak{
		UserID:        userID,
		CurrentStreak: current,
		LongestStreak: longest,
		LastStudyDate: &today,
	})
}

// GetCurrentStreak returns the user's streak aggregate. Missing rows and a
// missing table both degrade to a zero-valued streak; unexpected read
// errors are logged and degrade the same way so reads never block the UI.
func (s *StreakService) GetCurrentStreak(ctx context.Context, userID uuid.UUID) *model.StudyStreak {
	existing, err := s.streakRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrStreakTableMissing) {
			s.log.Warn().Msg("study_streaks table not found, run the database migration")
		} else if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Error().Err(err).Msg("Failed to fetch streak")
		}
		return &model.StudyStreak{UserID: userID}
	}
	return existing
}

// HasPracticedToday reports whether the user's last recorded study day is
// the current calendar day in server local time.
func (s *StreakService) HasPracticedToday(ctx context.Context, userID uuid.UUID) bool {
	streak := s.GetCurrentStreak(ctx, userID)
	if streak.LastStudyDate == nil {
		return false
	}
	return sameDay(*streak.LastStudyDate, dateOnly(s.now()))
}

// upsertSoft writes the streak row, treating a missing table as a no-op.
func (s *StreakService) upsertSoft(ctx context.Context, streak *model.StudyStreak) error {
	err := s.streakRepo.Upsert(ctx, streak)
	if errors.Is(err, repository.ErrStreakTableMissing) {
		s.log.Warn().Msg("study_streaks table not found during update")
		return nil
	}
	return err
}

// dateOnly truncates a time to its calendar day in local time.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
