package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicsprep/civicsprep-backend/internal/model"
	"github.com/civicsprep/civicsprep-backend/internal/repository"
	"github.com/civicsprep/civicsprep-backend/internal/service"
)

// ReminderWorker publishes a daily study reminder to users who have not
// practiced yet today. Connected clients receive it over the progress
// stream; the mobile app turns it into a local notification.
type ReminderWorker struct {
	streakRepo *repository.StreakRepository
	publisher  *service.RedisProgressPublisher
	hour       int
	log        zerolog.Logger
}

// NewReminderWorker creates a new ReminderWorker firing at the given hour.
func NewReminderWorker(streakRepo *repository.StreakRepository, publisher *service.RedisProgressPublisher, hour int, log zerolog.Logger) *ReminderWorker {
	return &ReminderWorker{
		streakRepo: streakRepo,
		publisher:  publisher,
		hour:       hour,
		log:        log.With().Str("component", "reminder_worker").Logger(),
	}
}

// Start begins the daily reminder loop. Call in a goroutine.
func (w *ReminderWorker) Start(ctx context.Context) {
	w.log.Info().Int("hour", w.hour).Msg("Worker started")

	for {
		wait := time.Until(w.nextRun(time.Now()))
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-time.After(wait):
			w.remind(ctx)
		}
	}
}

// nextRun returns the next occurrence of the configured hour after now.
func (w *ReminderWorker) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), w.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (w *ReminderWorker) remind(ctx context.Context) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	userIDs, err := w.streakRepo.ListStaleBefore(ctx, today)
	if err != nil {
		w.log.Error().Err(err).Msg("Failed to list stale streaks")
		return
	}
	if len(userIDs) == 0 {
		return
	}

	event := model.ProgressEvent{
		Type:      model.EventStudyReminder,
		Message:   "Time to study! Keep your streak going.",
		Timestamp: now,
	}

	sent := 0
	for _, userID := range userIDs {
		if err := w.publisher.PublishProgress(ctx, userID.String(), event); err != nil {
			w.log.Warn().Err(err).Str("user_id", userID.String()).Msg("Reminder publish failed")
			continue
		}
		sent++
	}

	w.log.Info().Int("sent", sent).Msg("Reminder sweep complete")
}
