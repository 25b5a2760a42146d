package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryConfig{MaxRetries: 3, InitialInterval: time.Millisecond, Multiplier: 2}, func() error {
		calls++
		if calls < 3 {
			return errors.New("busy")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_GivesUp(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Retry(context.Background(), RetryConfig{MaxRetries: 2, InitialInterval: time.Millisecond}, func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestRetry_StopsOnPermanent(t *testing.T) {
	boom := errors.New("not installed")
	calls := 0
	err := Retry(context.Background(), RetryConfig{MaxRetries: 5, InitialInterval: time.Millisecond}, func() error {
		calls++
		return Permanent(boom)
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, RetryConfig{MaxRetries: 5, InitialInterval: time.Hour}, func() error {
		return errors.New("busy")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
