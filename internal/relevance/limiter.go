package relevance

import (
	"context"
	"sync"
	"time"
)

// Limiter paces calls against the scoring oracle.
type Limiter interface {
	// Wait blocks until the next call is allowed or the context is done.
	Wait(ctx context.Context) error
}

// IntervalLimiter allows one call per fixed interval. The first call passes
// immediately.
type IntervalLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{interval: interval}
}

func (l *IntervalLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	wait := l.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	l.next = now.Add(wait + l.interval)
	l.mu.Unlock()

	if wait == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
