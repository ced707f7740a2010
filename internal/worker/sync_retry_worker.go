package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/civicsprep/civicsprep-backend/internal/repository"
	"github.com/civicsprep/civicsprep-backend/internal/service"
)

// SyncRetryWorker periodically sweeps every user's pending-sync queue and
// replays queued attempts. Clients can also trigger a retry explicitly;
// the sweep covers users who never come back online in the app.
type SyncRetryWorker struct {
	queue       *repository.PendingQueueRepository
	syncService *service.SyncService
	interval    time.Duration
	log         zerolog.Logger
}

// NewSyncRetryWorker creates a new SyncRetryWorker.
func NewSyncRetryWorker(queue *repository.PendingQueueRepository, syncService *service.SyncService, interval time.Duration, log zerolog.Logger) *SyncRetryWorker {
	return &SyncRetryWorker{
		queue:       queue,
		syncService: syncService,
		interval:    interval,
		log:         log.With().Str("component", "sync_retry_worker").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine.
func (w *SyncRetryWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SyncRetryWorker) sweep(ctx context.Context) {
	userIDs, err := w.queue.ListUserIDs(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Failed to list pending queues")
		return
	}
	if len(userIDs) == 0 {
		return
	}

	synced, failed := 0, 0
	for _, raw := range userIDs {
		userID, err := uuid.Parse(raw)
		if err != nil {
			w.log.Warn().Str("user_id", raw).Msg("Skipping malformed queue key")
			continue
		}

		result, err := w.syncService.RetryPending(ctx, userID)
		if err != nil {
			w.log.Error().Err(err).Str("user_id", raw).Msg("Retry pass failed")
			continue
		}
		synced += result.Synced
		failed += result.Failed
	}

	w.log.Info().
		Int("users", len(userIDs)).
		Int("synced", synced).
		Int("failed", failed).
		Msg("Sweep complete")
}
