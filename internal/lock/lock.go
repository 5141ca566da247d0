// Package lock provides the short-lived mutual exclusion taken around the
// booking conflict check so two requests for the same staff member and day
// cannot both pass it.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
)

var ErrLockBusy = errors.New("lock is held by another request")

// Release gives up a held lock.
type Release func(ctx context.Context) error

type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

// StaffDayKey names the lock guarding one staff member's bookings on a date.
func StaffDayKey(staffID model.StaffID, date string) string {
	return "staff:" + staffID.String() + ":" + date
}

// Deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewRedisLocker(client redis.Cmdable, ttl, wait time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RedisLocker{
		client: client,
		prefix: "booking:lock:",
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
	}
}

// Acquire polls until the lock is free, wait elapses, or ctx is done.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	k := l.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return func(ctx context.Context) error {
				return releaseScript.Run(ctx, l.client, []string{k}, token).Err()
			}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrLockBusy
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
}

// NoopLocker always succeeds. Used when the lock is disabled; the database
// transaction still serialises writers.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string) (Release, error) {
	return func(context.Context) error { return nil }, nil
}
