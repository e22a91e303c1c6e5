// Package ratelimiter bounds how often outbound API calls are made.
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrDeadlineTooSoon is returned by Wait when the next free slot lies past
// the context deadline. It matches context.DeadlineExceeded.
var ErrDeadlineTooSoon = fmt.Errorf("ratelimiter: next slot is after the deadline: %w", context.DeadlineExceeded)

// Limiter throttles an operation. Wait blocks until the caller may proceed
// or returns ctx.Err() if the context ends first.
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter allows at most limit calls per fixed window of length interval.
// It is safe for concurrent use.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // calls allowed per window
	interval  time.Duration // window length
	count     int
	lastReset time.Time
	now       func() time.Time
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter creates a RateLimiter. A non-positive limit disables limiting.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Wait reserves a slot in the current window, sleeping until the next window
// when the current one is full. If ctx has a deadline before that, Wait
// returns ErrDeadlineTooSoon at once instead of sleeping.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limit <= 0 {
		return nil
	}
	for {
		delay := rl.reserve()
		if delay <= 0 {
			return nil
		}
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
			slog.Warn("rate limit reached, giving up", "limit", rl.limit, "delay", delay)
			return ErrDeadlineTooSoon
		}
		slog.Warn("rate limit reached, waiting", "limit", rl.limit, "delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve takes a slot and returns 0, or returns how long to wait for the window to reset.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}
	if rl.count < rl.limit {
		rl.count++
		return 0
	}
	return rl.interval - now.Sub(rl.lastReset)
}
