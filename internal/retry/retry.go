package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

const (
	defaultMaxAttempts = 10
	defaultBaseDelay   = 500 * time.Millisecond
)

// ErrExhausted wraps the final error once every attempt has failed.
var ErrExhausted = errors.New("retries exhausted")

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy configures [Do].
//
// The zero value is usable and means 10 retries starting at 500ms.
type Policy struct {
	// MaxAttempts is the number of retries after the first invocation.
	MaxAttempts int

	// BaseDelay is the backoff ceiling before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps the backoff ceiling. Zero means uncapped.
	MaxDelay time.Duration

	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep SleepFunc

	// Jitter returns a factor in [0,1) applied to each delay.
	// Defaults to a uniform random source.
	Jitter func() float64

	// Logger receives a warning per retry. Defaults to slog.Default().
	Logger *slog.Logger

	// Name identifies the operation in log lines.
	Name string
}

// Default returns the standard policy used for remote calls.
func Default() Policy {
	return Policy{
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
	}
}

// withDefaults fills zero fields.
func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.Sleep == nil {
		p.Sleep = Sleep
	}
	if p.Jitter == nil {
		p.Jitter = rand.Float64
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	return p
}

// Backoff returns the un-jittered delay ceiling before retry number n (1-based).
//
// Formula: BaseDelay * 2^(n-1), capped at MaxDelay when set.
func (p Policy) Backoff(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	base := p.BaseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}

	delay := base
	for i := 1; i < n; i++ {
		delay *= 2
		// stop doubling once the cap (or overflow) is reached
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
		if delay <= 0 {
			return time.Duration(math.MaxInt64)
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Do invokes op until it succeeds, the policy is exhausted, or ctx is done.
//
// op must be safe to repeat: a failed invocation must leave no side effects.
// On exhaustion the returned error wraps both [ErrExhausted] and the last
// error from op.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var zero T
	var lastErr error
	for attempt := 0; attempt <= p.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(p.Backoff(attempt)) * p.Jitter())

			p.Logger.Warn("retrying operation",
				"operation", p.Name,
				"attempt", attempt,
				"max_attempts", p.MaxAttempts,
				"delay", delay.String(),
				"error", lastErr.Error(),
			)

			if err := p.Sleep(ctx, delay); err != nil {
				return zero, err
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, p.MaxAttempts+1, lastErr)
}

// Sleep waits for d, returning early with ctx.Err() if ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
