package playback

import (
	"context"
	"time"
)

// Waiter blocks for the gap between two words.
type Waiter interface {
	// Wait returns nil after d, or ctx.Err() if ctx ends first.
	Wait(ctx context.Context, d time.Duration) error
}

// WaiterFunc adapts a function to Waiter.
type WaiterFunc func(ctx context.Context, d time.Duration) error

// Wait calls f.
func (f WaiterFunc) Wait(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerWaiter waits on the wall clock.
type TimerWaiter struct{}

// Wait implements Waiter.
func (TimerWaiter) Wait(ctx context.Context, d time.Duration) error {
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
