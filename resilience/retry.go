package resilience

import (
	"context"
	"errors"
	"time"
)

// Backoff strategies.
const (
	// BackoffFixed waits the same interval between every attempt.
	BackoffFixed = "fixed"
	// BackoffLinear waits interval * attempt between attempts.
	BackoffLinear = "linear"
)

// ErrMaxAttemptsExceeded is returned when all attempts fail and no last
// error is available.
var ErrMaxAttemptsExceeded = errors.New("max attempts exceeded")

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int
	// Backoff is the base delay between attempts.
	Backoff time.Duration
	// Strategy is the backoff strategy: BackoffFixed or BackoffLinear.
	Strategy string
	// RetryIf determines if an error should be retried.
	RetryIf func(error) bool
	// OnRetry is called before each retry.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

// DefaultRetryConfig returns the canonical retry policy: two total attempts
// with a fixed one-second backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 2,
		Backoff:     time.Second,
		Strategy:    BackoffFixed,
		RetryIf:     DefaultRetryIf,
	}
}

// DefaultRetryIf retries all errors except context cancellation.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Retry executes fn up to cfg.MaxAttempts times, waiting between attempts.
// It returns the first successful result, or the last error once attempts
// are exhausted or RetryIf reports the error as terminal.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.Strategy == "" {
		cfg.Strategy = BackoffFixed
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = DefaultRetryIf
	}

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !cfg.RetryIf(err) {
			return zero, err
		}

		// No sleep after the final attempt.
		if attempt == cfg.MaxAttempts {
			break
		}

		backoff := backoffFor(attempt, cfg)

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, backoff)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = ErrMaxAttemptsExceeded
	}
	return zero, lastErr
}

// backoffFor calculates the wait before the next attempt.
func backoffFor(attempt int, cfg RetryConfig) time.Duration {
	if cfg.Strategy == BackoffLinear {
		return cfg.Backoff * time.Duration(attempt)
	}
	return cfg.Backoff
}
