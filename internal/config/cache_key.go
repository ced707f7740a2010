package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's login session.
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// PendingSyncKey returns the key holding a user's pending-sync attempt queue.
func (r *CacheKeyStruct) PendingSyncKey(userID string) string {
	return fmt.Sprintf("sync:pending:%s", userID)
}

// PendingSyncPattern returns the SCAN pattern matching all pending-sync queues.
func (r *CacheKeyStruct) PendingSyncPattern() string {
	return "sync:pending:*"
}

// LastSessionKey returns the key holding a user's last completed practice
// session result.
func (r *CacheKeyStruct) LastSessionKey(userID string) string {
	return fmt.Sprintf("progress:last_session:%s", userID)
}

// ProgressChannel returns the Redis PubSub channel for a user's progress
// events (attempt synced, streak updated, reminders).
func (r *CacheKeyStruct) ProgressChannel(userID string) string {
	return fmt.Sprintf("progress:%s:events", userID)
}

var CacheKey = NewCacheKeyStruct()
