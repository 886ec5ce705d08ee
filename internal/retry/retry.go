// Package retry provides a small, injectable backoff policy for
// provider and network calls.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Policy describes bounded exponential backoff with jitter.
// The zero value is not useful; use Default or construct explicitly.
// Tests inject policies with zero delays for determinism.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the delay before the second attempt; it doubles each
	// attempt after that.
	BaseDelay time.Duration

	// MaxDelay caps the per-attempt delay.
	MaxDelay time.Duration

	// JitterFrac randomizes each delay by ±JitterFrac (0..1).
	JitterFrac float64

	// Rand supplies jitter randomness. Nil uses the global source.
	Rand *rand.Rand
}

// Default mirrors the provider retry budget of the indexing pipeline:
// three attempts, 4s..60s exponential wait.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   4 * time.Second,
		MaxDelay:    60 * time.Second,
		JitterFrac:  0.2,
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, the
// attempt budget is exhausted, or ctx is cancelled. retryable decides
// whether an error is worth another attempt.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error, retryable func(error) bool) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.delay(attempt)):
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
	}
	return err
}

// delay computes the backoff before the given attempt (1-based for the
// first retry).
func (p Policy) delay(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}

	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			d = p.MaxDelay
			break
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}

	if p.JitterFrac > 0 {
		f := p.rand()
		// Scale into [1-JitterFrac, 1+JitterFrac].
		scale := 1 + p.JitterFrac*(2*f-1)
		d = time.Duration(float64(d) * scale)
	}
	return d
}

func (p Policy) rand() float64 {
	if p.Rand != nil {
		return p.Rand.Float64()
	}
	return rand.Float64()
}
