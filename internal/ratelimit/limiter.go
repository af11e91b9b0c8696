// Package ratelimit paces outbound indexer queries. Hosted GraphQL
// endpoints throttle aggressive clients; a strict minimum interval between
// requests keeps the service under those limits without bursts.
package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Limiter issues permits no faster than the configured rate by tracking the
// next available permit time. Permits never burst: each one is spaced at
// least the full interval after the previous.
type Limiter struct {
	mu             sync.Mutex
	nextPermitTime time.Time
	interval       time.Duration

	rateX1000 atomic.Int64 // rate * 1000 for lock-free reads
}

// New creates a Limiter issuing ratePerSec permits per second.
func New(ratePerSec float64) *Limiter {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}

	l := &Limiter{
		nextPermitTime: time.Now(),
		interval:       time.Duration(float64(time.Second) / ratePerSec),
	}
	l.rateX1000.Store(int64(ratePerSec * 1000))

	return l
}

// Wait blocks until a permit is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	permitTime := l.nextPermitTime
	l.nextPermitTime = permitTime.Add(l.interval)
	l.mu.Unlock()

	waitDuration := time.Until(permitTime)
	if waitDuration <= 0 {
		// Behind schedule, proceed immediately.
		return nil
	}

	timer := time.NewTimer(waitDuration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SetRate updates the rate limit, effective for subsequent permits.
func (l *Limiter) SetRate(ratePerSec float64) {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.interval = time.Duration(float64(time.Second) / ratePerSec)
	l.rateX1000.Store(int64(ratePerSec * 1000))

	// Reset the schedule so a rate decrease does not stall waiting permits
	// and an increase does not release a burst.
	if now := time.Now(); l.nextPermitTime.Before(now) {
		l.nextPermitTime = now
	}
}

// Rate returns the current rate limit.
func (l *Limiter) Rate() float64 {
	return float64(l.rateX1000.Load()) / 1000
}
