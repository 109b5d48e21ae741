package checkout

import (
	"context"
	"time"

	"github.com/shopfront/checkout/internal/observability"
)

// Backoff reports the delay before retry number attempt (1-based).
type Backoff func(attempt int) time.Duration

// NoBackoff retries immediately. Intended for deterministic tests.
func NoBackoff() Backoff {
	return func(int) time.Duration { return 0 }
}

func ConstantBackoff(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// ExponentialBackoff doubles the base delay per retry, capped at max.
func ExponentialBackoff(base, max time.Duration) Backoff {
	return func(attempt int) time.Duration {
		d := base
		for i := 1; i < attempt; i++ {
			d *= 2
			if d >= max {
				return max
			}
		}
		if d > max {
			return max
		}
		return d
	}
}

// Policy allows MaxRetries retries, i.e. MaxRetries+1 total attempts.
type Policy struct {
	MaxRetries int
	Backoff    Backoff

	// OnRetry, when set, is invoked once per scheduled retry. Used to feed
	// metrics without coupling the executor to a vendor.
	OnRetry func(operation string, attempt int, err error)
}

func (p Policy) delay(attempt int) time.Duration {
	if p.Backoff == nil {
		return 0
	}
	return p.Backoff(attempt)
}

// Do executes fn under the policy, logging one "retrying" entry per failed
// pre-terminal attempt and one "giving up" entry at exhaustion. The last
// attempt's error is returned as-is; intermediate errors are not aggregated.
// Success on any attempt returns immediately with no further logs.
func Do[T any](ctx context.Context, p Policy, logger observability.Logger, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= p.MaxRetries+1; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt > p.MaxRetries {
			logger.Error("operation_giving_up",
				observability.F("operation", operation),
				observability.F("attempts", attempt),
				observability.F("error", err.Error()),
			)
			return zero, lastErr
		}

		delay := p.delay(attempt)
		logger.Warn("operation_retrying",
			observability.F("operation", operation),
			observability.F("attempt", attempt),
			observability.F("delay", delay.String()),
			observability.F("error", err.Error()),
		)
		if p.OnRetry != nil {
			p.OnRetry(operation, attempt, err)
		}

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}

	return zero, lastErr
}
