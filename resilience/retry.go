package resilience

import (
	"context"
	"errors"
	"fmt"
)

// Common retry errors.
var (
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// RetryConfig configures retry behavior. Retries run back to back with no
// delay.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int
	// RetryIf determines if an error should be retried.
	RetryIf func(error) bool
	// OnRetry is called before each retry.
	OnRetry func(attempt int, err error)
}

// ImmediateRetryConfig allows the given number of retries after the first
// attempt with no delay between them.
func ImmediateRetryConfig(retries int, retryIf func(error) bool) RetryConfig {
	return RetryConfig{
		MaxAttempts: retries + 1,
		RetryIf:     retryIf,
	}
}

// DefaultRetryIf retries all errors except context cancellation.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// AttemptsError reports that every attempt failed with a retryable error.
// It matches ErrMaxRetriesExceeded and unwraps to the last failure.
type AttemptsError struct {
	Attempts int
	Err      error
}

func (e *AttemptsError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrMaxRetriesExceeded, e.Attempts, e.Err)
}

func (e *AttemptsError) Unwrap() []error {
	return []error{ErrMaxRetriesExceeded, e.Err}
}

// Retry executes a function with retry logic.
// Errors rejected by RetryIf are returned as-is. When every attempt fails the
// result is an *AttemptsError wrapping the last error.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = DefaultRetryIf
	}

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		// Check context before each attempt
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

		if attempt == cfg.MaxAttempts {
			break
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}
	}

	return zero, &AttemptsError{Attempts: cfg.MaxAttempts, Err: lastErr}
}
