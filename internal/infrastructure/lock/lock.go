// Package lock serialises read-modify-write sequences on a single record.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/daybook-api/pkg/apperror"
)

// Locker runs fn while holding the lock named key.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// NopLocker runs fn directly. Concurrent updates to one record are last write
// wins.
type NopLocker struct{}

func (NopLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ErrBusy is returned when the lock could not be obtained before retries ran out.
var ErrBusy = apperror.NewConflictError("Record is being updated by another request, please retry")

// RedisLocker holds a redislock lock for the duration of fn.
type RedisLocker struct {
	client  *redislock.Client
	ttl     time.Duration
	backoff time.Duration
	prefix  string
}

// NewRedisLocker creates a locker backed by rdb. ttl bounds how long a crashed
// holder can block others.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client:  redislock.New(rdb),
		ttl:     ttl,
		backoff: 50 * time.Millisecond,
		prefix:  "daybook:lock:",
	}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.backoff), int(l.ttl/l.backoff)),
	}
	lk, err := l.client.Obtain(ctx, l.prefix+key, l.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrBusy
	}
	if err != nil {
		return apperror.NewStorageError("obtain update lock", err)
	}
	defer func() {
		// Use a fresh context so a cancelled request still releases.
		_ = lk.Release(context.Background())
	}()

	return fn(ctx)
}

// Key builds the lock name for one record.
func Key(kind, id string) string {
	return kind + ":" + id
}
