package composer

import (
	"math/big"
	"sync"
	"time"
)

// Deadline defaults.
const (
	DefaultDeadlineMinutes = 10
	DefaultClockRefresh    = 15 * time.Second
)

// ComputeDeadline converts a relative deadline in minutes to an absolute
// Unix-second timestamp. A non-positive minutes value falls back to
// defaultMinutes.
func ComputeDeadline(nowSeconds int64, deadlineMinutes, defaultMinutes float64) int64 {
	if deadlineMinutes <= 0 {
		deadlineMinutes = defaultMinutes
	}
	return nowSeconds + int64(deadlineMinutes*60)
}

// Clock hands out a current-time snapshot that is refreshed at a bounded
// interval instead of on every read. All compositions built from the same
// snapshot agree on a single deadline base, so an approve and the call it
// gates carry consistent deadlines.
type Clock struct {
	mu       sync.Mutex
	refresh  time.Duration
	now      func() time.Time
	snapshot int64
	takenAt  time.Time
}

// NewClock creates a clock refreshing its snapshot at the given interval.
// A non-positive interval uses DefaultClockRefresh.
func NewClock(refresh time.Duration) *Clock {
	if refresh <= 0 {
		refresh = DefaultClockRefresh
	}
	return &Clock{refresh: refresh, now: time.Now}
}

// Now returns the snapshot's Unix seconds, refreshing it when stale.
func (c *Clock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now()
	if c.takenAt.IsZero() || t.Sub(c.takenAt) >= c.refresh {
		c.snapshot = t.Unix()
		c.takenAt = t
	}
	return c.snapshot
}

// Deadline returns the absolute on-chain deadline for a relative minutes
// preference, based on the shared snapshot. Zero/negative minutes use the
// default of 10.
func (c *Clock) Deadline(minutes float64) *big.Int {
	return big.NewInt(ComputeDeadline(c.Now(), minutes, DefaultDeadlineMinutes))
}
