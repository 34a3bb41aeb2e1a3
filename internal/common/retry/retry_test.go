// internal/common/retry/retry_test.go
package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgen/internal/common/errors"
	"leadgen/internal/common/logger"
)

func fastPolicy(maxAttempts int) Policy {
	return Policy{
		MaxAttempts:    maxAttempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     4 * time.Millisecond,
	}
}

func retryableErr() error {
	return errors.NewDirectoryRateLimitedError("slow down")
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), logger.NewTestLogger(t), "test.op", fastPolicy(3), func(ctx context.Context) error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), logger.NewTestLogger(t), "test.op", fastPolicy(3), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return retryableErr()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	attempts := 0
	authErr := errors.NewDirectoryAuthFailedError("bad key")

	err := Do(context.Background(), logger.NewTestLogger(t), "test.op", fastPolicy(3), func(ctx context.Context) error {
		attempts++
		return authErr
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	// The original error comes back unwrapped, no attempt accounting.
	assert.Equal(t, authErr, err)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), logger.NewTestLogger(t), "test.op", fastPolicy(3), func(ctx context.Context) error {
		attempts++
		return retryableErr()
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "test.op failed after 3 attempts")
	assert.Contains(t, err.Error(), "DIRECTORY_RATE_LIMITED")
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	policy := Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Minute,
		MaxBackoff:     time.Minute,
	}

	err := Do(ctx, logger.NewTestLogger(t), "test.op", policy, func(ctx context.Context) error {
		attempts++
		cancel()
		return retryableErr()
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestDo_CancelledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Do(ctx, logger.NewTestLogger(t), "test.op", fastPolicy(3), func(ctx context.Context) error {
		attempts++
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, attempts)
}

func TestDo_ZeroMaxAttemptsRunsOnce(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), logger.NewTestLogger(t), "test.op", Policy{}, func(ctx context.Context) error {
		attempts++
		return retryableErr()
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Contains(t, err.Error(), "failed after 1 attempts")
}
