package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/advisoryhub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Scopes name the action a cooldown applies to.
const (
	ScopeBooking = "booking"
)

// RateLimitError carries how long the caller has to wait. It matches
// apperror.ErrRateLimitExceeded with errors.Is.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

// Limiter enforces one action per user per cooldown window using a redis SETNX lock.
// A nil client or a zero window disables the limiter.
type Limiter struct {
	rdb    *redis.Client
	window time.Duration
}

func New(rdb *redis.Client, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, window: window}
}

func (l *Limiter) enabled() bool {
	return l != nil && l.rdb != nil && l.window > 0
}

func key(userID uuid.UUID, scope string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), scope)
}

// Acquire takes the cooldown lock for userID. It returns a *RateLimitError when
// the lock is already held and apperror.ErrStorageUnavailable when redis cannot be reached.
func (l *Limiter) Acquire(ctx context.Context, userID uuid.UUID, scope string) error {
	if !l.enabled() {
		return nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(userID, scope), "locked", l.window).Result()
	if err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %v: %w", err, apperror.ErrStorageUnavailable)
	}
	if wasSet {
		return nil
	}

	ttl, err := l.rdb.TTL(ctx, key(userID, scope)).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return &RateLimitError{
		Message:    fmt.Sprintf("please wait %.0f seconds before trying again", ttl.Seconds()),
		RetryAfter: ttl,
	}
}

// Release drops the lock, used when the guarded action failed and should not count.
func (l *Limiter) Release(ctx context.Context, userID uuid.UUID, scope string) error {
	if !l.enabled() {
		return nil
	}
	return l.rdb.Del(ctx, key(userID, scope)).Err()
}
