package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T) (*RunLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRunLock(client, time.Minute), mr
}

func TestRunLockAcquireRelease(t *testing.T) {
	lock, _ := newTestLock(t)
	ctx := context.Background()

	require.NoError(t, lock.Acquire(ctx, 1))
	require.ErrorIs(t, lock.Acquire(ctx, 1), ErrLockHeld)

	// A different tenant is an independent lock.
	require.NoError(t, lock.Acquire(ctx, 2))

	require.NoError(t, lock.Release(ctx, 1))
	require.NoError(t, lock.Acquire(ctx, 1))
}

func TestRunLockExpires(t *testing.T) {
	lock, mr := newTestLock(t)
	ctx := context.Background()

	require.NoError(t, lock.Acquire(ctx, 1))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, lock.Acquire(ctx, 1))
}
