package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLockHeld indicates another regeneration run currently holds the lock.
var ErrLockHeld = errors.New("platform/cache: regeneration lock held")

// RunLock guards destructive regeneration against concurrent runs for the
// same tenant. The lock expires on its own, so a crashed run never wedges
// the next one.
type RunLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRunLock constructs a RunLock with the given expiry.
func NewRunLock(client *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{client: client, ttl: ttl}
}

func lockKey(tenantID int64) string {
	return fmt.Sprintf("fixtures:tenant:%d:regen:lock", tenantID)
}

// Acquire takes the lock or returns ErrLockHeld.
func (l *RunLock) Acquire(ctx context.Context, tenantID int64) error {
	ok, err := l.client.SetNX(ctx, lockKey(tenantID), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return fmt.Errorf("platform/cache: acquire lock: %w", err)
	}
	if !ok {
		return ErrLockHeld
	}
	return nil
}

// Release drops the lock. Safe to call when the lock already expired.
func (l *RunLock) Release(ctx context.Context, tenantID int64) error {
	if err := l.client.Del(ctx, lockKey(tenantID)).Err(); err != nil {
		return fmt.Errorf("platform/cache: release lock: %w", err)
	}
	return nil
}
