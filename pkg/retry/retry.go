// pkg/retry/retry.go - functions for retrying actions with exponential backoff.

package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/windowsadmins/wlaninfo/pkg/logging"
)

// NonRetryableError wraps an error that must end the retry loop immediately.
type NonRetryableError struct {
	Err error
}

func (e *NonRetryableError) Error() string { return e.Err.Error() }
func (e *NonRetryableError) Unwrap() error { return e.Err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetryableError{Err: err}
}

// RetryConfig defines the configuration for retry attempts
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	Multiplier      float64
}

// Retry retries a given function with exponential backoff until it succeeds,
// returns a NonRetryableError, runs out of attempts or ctx is done.
func Retry(ctx context.Context, config RetryConfig, action func() error) error {
	interval := config.InitialInterval
	var lastErr error

	for attempt := 1; attempt <= config.MaxRetries; attempt++ {
		err := action()
		if err == nil {
			return nil
		}
		lastErr = err

		var nonRetryableErr *NonRetryableError
		if errors.As(err, &nonRetryableErr) {
			logging.Warn("Non-retryable error encountered", "error", err, "attempt", attempt)
			return nonRetryableErr.Err
		}

		if attempt == config.MaxRetries {
			logging.Warn(fmt.Sprintf("Attempt %d/%d failed. No more retries.", attempt, config.MaxRetries), "error", err)
			break
		}
		logging.Warn(fmt.Sprintf("Attempt %d/%d failed. Retrying in %s...", attempt, config.MaxRetries, interval), "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
		if config.Multiplier > 0 {
			interval = time.Duration(float64(interval) * config.Multiplier)
		}
	}

	return fmt.Errorf("action failed after %d attempts: %w", config.MaxRetries, lastErr)
}
