package session

import (
	"context"
	"errors"
	"time"
)

// Returned by AwaitReady when the attempt budget runs out before the
// readiness predicate holds.
var ErrAttemptsExhausted = errors.New("await ready: attempts exhausted")

// AwaitReady polls a readiness predicate with a bounded retry budget.
//
// The predicate runs at most maxAttempts times at interval spacing; onAttempt
// (optional) fires before each check. Returns nil once the predicate holds,
// ErrAttemptsExhausted when the budget is spent, and ctx.Err() when cancelled
// mid-wait. It is independent of what the predicate actually inspects.
func AwaitReady(
	ctx context.Context,
	interval time.Duration,
	maxAttempts int,
	onAttempt func(),
	probe func(ctx context.Context) bool,
) error {
	if maxAttempts < 1 {
		return ErrAttemptsExhausted
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if onAttempt != nil {
			onAttempt()
		}

		if probe(ctx) {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		if err := sleep(ctx, interval); err != nil {
			return err
		}
	}

	return ErrAttemptsExhausted
}

// sleep waits for d while respecting context cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
