package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/civicsprep/civicsprep-backend/internal/model"
	"github.com/civicsprep/civicsprep-backend/internal/repository"
)

const (
	// categorySampleSize bounds the join used for category accuracy.
	categorySampleSize = 1000

	// moduleWindowSize is how many recent attempts feed module stats.
	moduleWindowSize = 30

	// recentOutcomeCount is how many raw outcomes module stats expose.
	recentOutcomeCount = 5
)

// attemptReader is the slice of AttemptRepository the analytics path needs.
type attemptReader interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (total, correct int, err error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Attempt, error)
	ListByUserAndMode(ctx context.Context, userID uuid.UUID, mode model.AttemptMode, limit int) ([]model.Attempt, error)
	ListByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.Attempt, error)
	ListWithCategory(ctx context.Context, userID uuid.UUID, limit int) ([]repository.CategoryAttempt, error)
}

// streakReader reads the streak summary with soft degradation built in.
type streakReader interface {
	GetCurrentStreak(ctx context.Context, userID uuid.UUID) *model.StudyStreak
}

// AnalyticsService aggregates attempt history into dashboard-shaped
// summaries. All grouping happens over bounded windows; nothing here
// writes.
type AnalyticsService struct {
	attemptRepo attemptReader
	streaks     streakReader
	log         zerolog.Logger
	now         func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(attemptRepo *repository.AttemptRepository, streaks *StreakService, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		attemptRepo: attemptRepo,
		streaks:     streaks,
		log:         log.With().Str("component", "analytics_service").Logger(),
		now:         time.Now,
	}
}

// OverallStats returns lifetime totals plus the current streak. The
// streak read degrades to zero defaults rather than failing the call.
func (s *AnalyticsService) OverallStats(ctx context.Context, userID uuid.UUID) (*model.OverallStats, error) {
	total, correct, err := s.attemptRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting attempts: %w", err)
	}

	accuracy := 0.0
	if total > 0 {
		accuracy = round1(float64(correct) / float64(total) * 100)
	}

	streak := s.streaks.GetCurrentStreak(ctx, userID)

	return &model.OverallStats{
		TotalQuestions: total,
		TotalCorrect:   correct,
		Accuracy:       accuracy,
		CurrentStreak:  streak.CurrentStreak,
		LongestStreak:  streak.LongestStreak,
	}, nil
}

// RecentSessions reconstructs up to limit practice sessions from attempt
// history. Attempts sharing a calendar day and mode form one session.
func (s *AnalyticsService) RecentSessions(ctx context.Context, userID uuid.UUID, limit int) ([]model.RecentSession, error) {
	if limit <= 0 {
		limit = 10
	}

	// Over-fetch so grouping still yields enough distinct sessions.
	attempts, err := s.attemptRepo.ListByUser(ctx, userID, limit*10)
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}
	if len(attempts) == 0 {
		return []model.RecentSession{}, nil
	}

	type sessionKey struct {
		date string
		mode model.AttemptMode
	}
	grouped := make(map[sessionKey]*model.RecentSession)
	for _, a := range attempts {
		mode := a.Mode
		if mode == "" {
			mode = model.AttemptModeMCQ
		}
		key := sessionKey{date: a.CreatedAt.Format(time.DateOnly), mode: mode}
		sess, ok := grouped[key]
		if !ok {
			sess = &model.RecentSession{Date: key.date, Mode: mode}
			grouped[key] = sess
		}
		sess.Total++
		if a.Correct {
			sess.Correct++
		}
	}

	sessions := make([]model.RecentSession, 0, len(grouped))
	for _, sess := range grouped {
		sess.Accuracy = round1(float64(sess.Correct) / float64(sess.Total) * 100)
		sessions = append(sessions, *sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date > sessions[j].Date
		}
		return sessions[i].Mode < sessions[j].Mode
	})
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// ModuleStats summarizes the last moduleWindowSize attempts within one
// mode, including the raw outcomes of the most recent few.
func (s *AnalyticsService) ModuleStats(ctx context.Context, userID uuid.UUID, mode model.AttemptMode) (*model.ModuleStats, error) {
	attempts, err := s.attemptRepo.ListByUserAndMode(ctx, userID, mode, moduleWindowSize)
	if err != nil {
		return nil, fmt.Errorf("listing %s attempts: %w", mode, err)
	}

	total := len(attempts)
	correct := 0
	for _, a := range attempts {
		if a.Correct {
			correct++
		}
	}
	percentage := 0.0
	if total > 0 {
		percentage = round1(float64(correct) / float64(total) * 100)
	}

	recent := make([]model.AttemptOutcome, 0, recentOutcomeCount)
	for _, a := range attempts {
		if len(recent) == recentOutcomeCount {
			break
		}
		recent = append(recent, model.AttemptOutcome{Correct: a.Correct, CreatedAt: a.CreatedAt})
	}

	return &model.ModuleStats{
		Total:          total,
		Correct:        correct,
		Percentage:     percentage,
		RecentAttempts: recent,
	}, nil
}

// CategoryPerformance groups a recent attempt sample by question
// category. Questions without a category land under "Unknown".
func (s *AnalyticsService) CategoryPerformance(ctx context.Context, userID uuid.UUID) ([]model.CategoryPerformance, error) {
	attempts, err := s.attemptRepo.ListWithCategory(ctx, userID, categorySampleSize)
	if err != nil {
		return nil, fmt.Errorf("listing category attempts: %w", err)
	}
	if len(attempts) == 0 {
		return []model.CategoryPerformance{}, nil
	}

	grouped := make(map[string]*model.CategoryPerformance)
	for _, a := range attempts {
		category := "Unknown"
		if a.Category != nil && *a.Category != "" {
			category = *a.Category
		}
		perf, ok := grouped[category]
		if !ok {
			perf = &model.CategoryPerformance{Category: category}
			grouped[category] = perf
		}
		perf.Total++
		if a.Correct {
			perf.Correct++
		}
	}

	out := make([]model.CategoryPerformance, 0, len(grouped))
	for _, perf := range grouped {
		perf.Accuracy = round1(float64(perf.Correct) / float64(perf.Total) * 100)
		out = append(out, *perf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// ProgressOverTime returns one accuracy value per practiced day in the
// trailing window, ascending by date.
func (s *AnalyticsService) ProgressOverTime(ctx context.Context, userID uuid.UUID, days int) ([]model.DailyAccuracy, error) {
	if days <= 0 {
		days = 30
	}
	since := s.now().AddDate(0, 0, -days)

	attempts, err := s.attemptRepo.ListByUserSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("listing attempts since %s: %w", since.Format(time.DateOnly), err)
	}
	if len(attempts) == 0 {
		return []model.DailyAccuracy{}, nil
	}

	type dayStats struct{ total, correct int }
	grouped := make(map[string]*dayStats)
	for _, a := range attempts {
		date := a.CreatedAt.Format(time.DateOnly)
		st, ok := grouped[date]
		if !ok {
			st = &dayStats{}
			grouped[date] = st
		}
		st.total++
		if a.Correct {
			st.correct++
		}
	}

	out := make([]model.DailyAccuracy, 0, len(grouped))
	for date, st := range grouped {
		out = append(out, model.DailyAccuracy{
			Date:     date,
			Accuracy: round1(float64(st.correct) / float64(st.total) * 100),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
