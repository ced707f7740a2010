package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/civicsprep/civicsprep-backend/internal/config"
	"github.com/civicsprep/civicsprep-backend/internal/model"
)

// PendingQueueRepository stores each user's pending-sync attempt queue as a
// single JSON-serialized value in Redis. The queue is append-only between
// retry passes; a retry pass replaces it wholesale with the entries that
// still failed, so a partial write can never corrupt it.
type PendingQueueRepository struct {
	rdb *redis.Client
}

// NewPendingQueueRepository creates a new PendingQueueRepository.
func NewPendingQueueRepository(rdb *redis.Client) *PendingQueueRepository {
	return &PendingQueueRepository{rdb: rdb}
}

// Load reads a user's queue. A missing key is an empty queue.
func (r *PendingQueueRepository) Load(ctx context.Context, userID string) ([]model.PendingAttempt, error) {
	raw, err := r.rdb.Get(ctx, config.CacheKey.PendingSyncKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load pending queue: %w", err)
	}

	var pending []model.PendingAttempt
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		return nil, fmt.Errorf("decode pending queue: %w", err)
	}
	return pending, nil
}

// Append adds one attempt to the end of a user's queue.
func (r *PendingQueueRepository) Append(ctx context.Context, userID string, attempt model.PendingAttempt) error {
	pending, err := r.Load(ctx, userID)
	if err != nil {
		return err
	}
	return r.Replace(ctx, userID, append(pending, attempt))
}

// Replace overwrites a user's queue wholesale. An empty slice deletes the key.
func (r *PendingQueueRepository) Replace(ctx context.Context, userID string, pending []model.PendingAttempt) error {
	key := config.CacheKey.PendingSyncKey(userID)
	if len(pending) == 0 {
		return r.rdb.Del(ctx, key).Err()
	}

	raw, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encode pending queue: %w", err)
	}
	return r.rdb.Set(ctx, key, raw, 0).Err()
}

// Count returns the number of queued attempts for a user.
func (r *PendingQueueRepository) Count(ctx context.Context, userID string) (int, error) {
	pending, err := r.Load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

// ListUserIDs scans for all users with a non-empty pending queue.
func (r *PendingQueueRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		cursor uint64
	)
	prefix := config.CacheKey.PendingSyncKey("")
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, config.CacheKey.PendingSyncPattern(), 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan pending queues: %w", err)
		}
		for _, k := range keys {
			ids = append(ids, k[len(prefix):])
		}
		if next == 0 {
			return ids, nil
		}
		cursor = next
	}
}
