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

// LastSessionRepository caches each user's most recent completed practice
// session result under a fixed per-user key. It is a fast fallback read
// when the attempt aggregates are unreachable; staleness is accepted.
type LastSessionRepository struct {
	rdb *redis.Client
}

// NewLastSessionRepository creates a new LastSessionRepository.
func NewLastSessionRepository(rdb *redis.Client) *LastSessionRepository {
	return &LastSessionRepository{rdb: rdb}
}

// Get reads the cached result. Returns (nil, nil) when nothing is cached.
func (r *LastSessionRepository) Get(ctx context.Context, userID string) (*model.PracticeSessionResult, error) {
	raw, err := r.rdb.Get(ctx, config.CacheKey.LastSessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load last session: %w", err)
	}

	var result model.PracticeSessionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("decode last session: %w", err)
	}
	return &result, nil
}

// Set overwrites the cached result.
func (r *LastSessionRepository) Set(ctx context.Context, userID string, result *model.PracticeSessionResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode last session: %w", err)
	}
	return r.rdb.Set(ctx, config.CacheKey.LastSessionKey(userID), raw, 0).Err()
}

// Clear removes the cached result.
func (r *LastSessionRepository) Clear(ctx context.Context, userID string) error {
	return r.rdb.Del(ctx, config.CacheKey.LastSessionKey(userID)).Err()
}
