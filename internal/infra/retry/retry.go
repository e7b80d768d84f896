package retry

import (
	"context"
	"time"
)

const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
)

// Backoff returns the pause before the given retry; attempt starts at 1.
type Backoff func(attempt int) time.Duration

type Policy struct {
	Attempts  int
	Backoff   Backoff
	Retryable func(err error) bool
	// Sleep is swapped in tests.
	Sleep func(ctx context.Context, delay time.Duration) error
}

func Linear(base time.Duration) Backoff {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			return 0
		}
		return base * time.Duration(attempt)
	}
}

func NewLinear(attempts int, base time.Duration, retryable func(error) bool) Policy {
	return Policy{
		Attempts:  attempts,
		Backoff:   Linear(base),
		Retryable: retryable,
	}
}

// Do runs fn until it succeeds, returns a non-retryable error or the attempt
// bound is reached. The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepWithContext
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt == attempts || p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		if serr := sleep(ctx, delay); serr != nil {
			return serr
		}
	}
	return err
}

func SleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
