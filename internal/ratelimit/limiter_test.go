package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestWait_EnforcesInterval(t *testing.T) {
	// 100 permits/sec = 10ms interval.
	l := New(100)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	elapsed := time.Since(start)

	// First permit is immediate, the next four are spaced 10ms apart.
	if elapsed < 35*time.Millisecond {
		t.Errorf("5 permits took %v, want at least ~40ms", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	// 1 permit per 10 seconds: the second Wait must block.
	l := New(0.1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}
	if err := l.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("second Wait() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestSetRate(t *testing.T) {
	l := New(1)
	if got := l.Rate(); got != 1 {
		t.Errorf("Rate() = %v, want 1", got)
	}

	l.SetRate(50)
	if got := l.Rate(); got != 50 {
		t.Errorf("Rate() after SetRate = %v, want 50", got)
	}

	// Invalid rates fall back to 1/sec instead of dividing by zero.
	l.SetRate(0)
	if got := l.Rate(); got != 1 {
		t.Errorf("Rate() after SetRate(0) = %v, want 1", got)
	}
}
