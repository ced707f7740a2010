package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicsprep/civicsprep-backend/internal/config"
	"github.com/civicsprep/civicsprep-backend/internal/model"
)

// progressPublisher pushes progress events toward connected clients.
type progressPublisher interface {
	PublishProgress(ctx context.Context, userID string, event model.ProgressEvent) error
}

// RedisProgressPublisher fans progress events out over Redis PubSub, one
// channel per user. The websocket stream handler subscribes on the other
// side.
type RedisProgressPublisher struct {
	rdb *redis.Client
}

// NewRedisProgressPublisher creates a new RedisProgressPublisher.
func NewRedisProgressPublisher(rdb *redis.Client) *RedisProgressPublisher {
	return &RedisProgressPublisher{rdb: rdb}
}

// PublishProgress sends one event on the user's progress channel.
// Delivery is fire-and-forget: nobody may be listening.
func (p *RedisProgressPublisher) PublishProgress(ctx context.Context, userID string, event model.ProgressEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, config.CacheKey.ProgressChannel(userID), raw).Err()
}
