package utils

import (
	"context"
	"time"
)

// Backoff returns initial * 2^attempt, capped at maxWait. Negative attempts
// yield initial.
func Backoff(attempt int, initial, maxWait time.Duration) time.Duration {
	if initial <= 0 {
		return 0
	}
	if attempt <= 0 {
		return min(initial, maxWait)
	}
	// 2^30 * 1ns already exceeds any sane cap.
	if attempt > 30 {
		return maxWait
	}
	wait := initial * time.Duration(1<<attempt)
	if wait > maxWait || wait <= 0 {
		return maxWait
	}
	return wait
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TimeLeft returns the time remaining before ctx's deadline, 0 without one.
func TimeLeft(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline)
}
