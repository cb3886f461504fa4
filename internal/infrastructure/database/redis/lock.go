package redis

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "failed to acquire lock")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

type LockOption func(*lockConfig)

func WithLockTTL(ttl time.Duration) LockOption {
	return func(c *lockConfig) { c.ttl = ttl }
}

func WithRetryDelay(delay time.Duration) LockOption {
	return func(c *lockConfig) { c.retryDelay = delay }
}

func WithRetryCount(count int) LockOption {
	return func(c *lockConfig) { c.retryCount = count }
}

type lockConfig struct {
	ttl        time.Duration
	retryDelay time.Duration
	retryCount int
}

// Mutex is a single-owner lock on one Redis key. Replicas use it to serialise
// one-off work such as seeding the scheme catalog.
type Mutex struct {
	client *Client
	key    string
	value  string
	config lockConfig
	logger logging.Logger
}

// NewMutex returns an unlocked mutex named name.
func NewMutex(client *Client, name string, log logging.Logger, opts ...LockOption) *Mutex {
	cfg := lockConfig{
		ttl:        30 * time.Second,
		retryDelay: 100 * time.Millisecond,
		retryCount: 30,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Mutex{
		client: client,
		key:    client.Key("lock:" + name),
		value:  uuid.NewString(),
		config: cfg,
		logger: logging.OrNop(log),
	}
}

var mutexUnlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var mutexExtendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// Lock retries until acquired, the retry budget runs out or ctx ends.
func (m *Mutex) Lock(ctx context.Context) error {
	for i := 0; i < m.config.retryCount; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := m.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.config.retryDelay):
		}
	}
	return ErrLockNotAcquired
}

func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	rdb := m.client.Underlying()
	if rdb == nil {
		return false, ErrClientClosed
	}
	ok, err := rdb.SetNX(ctx, m.key, m.value, m.config.ttl).Result()
	if err != nil && !stderrors.Is(err, redis.Nil) {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to set lock")
	}
	if ok {
		m.logger.Debug("lock acquired", logging.String("key", m.key))
	}
	return ok, nil
}

func (m *Mutex) Unlock(ctx context.Context) error {
	rdb := m.client.Underlying()
	if rdb == nil {
		return ErrClientClosed
	}
	res, err := mutexUnlockScript.Run(ctx, rdb, []string{m.key}, m.value).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to release lock")
	}
	if res == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// Extend resets the TTL if the lock is still held by m.
func (m *Mutex) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	rdb := m.client.Underlying()
	if rdb == nil {
		return false, ErrClientClosed
	}
	res, err := mutexExtendScript.Run(ctx, rdb, []string{m.key}, m.value, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to extend lock")
	}
	return res == 1, nil
}

//Personal.AI order the ending
