package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutex_LockUnlock(t *testing.T) {
	t.Parallel()
	mr, client := newMiniClient(t)
	ctx := context.Background()

	lock := NewMutex(client, "scheme-seed", nil, WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))
	assert.True(t, mr.Exists("test:lock:scheme-seed"))

	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, mr.Exists("test:lock:scheme-seed"))
	assert.Equal(t, ErrLockNotHeld, lock.Unlock(ctx))
}

func TestMutex_Contention(t *testing.T) {
	t.Parallel()
	mr, client := newMiniClient(t)
	ctx := context.Background()

	lock1 := NewMutex(client, "seed", nil, WithRetryCount(1), WithRetryDelay(10*time.Millisecond))
	lock2 := NewMutex(client, "seed", nil, WithRetryCount(2), WithRetryDelay(10*time.Millisecond))

	require.NoError(t, lock1.Lock(ctx))
	assert.Equal(t, ErrLockNotAcquired, lock2.Lock(ctx))
	assert.Equal(t, ErrLockNotHeld, lock2.Unlock(ctx))

	ok, err := lock2.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock1.Unlock(ctx))
	ok, err = lock2.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("test:lock:seed"))
}

func TestMutex_ExpiresAndExtends(t *testing.T) {
	t.Parallel()
	mr, client := newMiniClient(t)
	ctx := context.Background()

	lock := NewMutex(client, "ttl", nil, WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))

	ok, err := lock.Extend(ctx, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	mr.FastForward(5 * time.Second)
	assert.True(t, mr.Exists("test:lock:ttl"))

	mr.FastForward(6 * time.Second)
	ok, err = lock.Extend(ctx, time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMutex_ContextCancelled(t *testing.T) {
	t.Parallel()
	_, client := newMiniClient(t)
	holder := NewMutex(client, "busy", nil)
	require.NoError(t, holder.Lock(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	waiter := NewMutex(client, "busy", nil, WithRetryDelay(time.Second))
	assert.ErrorIs(t, waiter.Lock(ctx), context.Canceled)
}

//Personal.AI order the ending
