package store

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retry behavior for failed writes.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the retry policy used for saves.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 50 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2.0,
	}
}

// retry calls fn until it succeeds, the attempts run out or ctx is done.
// It returns the last error.
func (c RetryConfig) retry(ctx context.Context, fn func(context.Context) error) error {
	attempts := max(c.MaxAttempts, 1)

	var lastErr error
	for attempt := range attempts {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		// Context errors are never retried.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff(attempt)):
		}
	}
	return lastErr
}

// backoff computes the wait duration for the given attempt.
func (c RetryConfig) backoff(attempt int) time.Duration {
	mult := c.Multiplier
	if mult < 1 {
		mult = 1
	}
	wait := float64(c.InitialWait) * math.Pow(mult, float64(attempt))
	if c.MaxWait > 0 && wait > float64(c.MaxWait) {
		wait = float64(c.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
