// Package retry provides bounded retries with exponential backoff for calls
// to external services. Only errors marked retryable (rate limits, transient
// network failures) trigger another attempt.
package retry

import (
	"context"
	"fmt"
	"time"

	"leadgen/internal/common/errors"
	"leadgen/internal/common/logger"
)

// Policy controls attempt count and backoff growth.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultPolicy matches the retry behavior of the external clients: three
// attempts with 2s, 4s waits capped at 8s.
var DefaultPolicy = Policy{
	MaxAttempts:    3,
	InitialBackoff: 2 * time.Second,
	MaxBackoff:     8 * time.Second,
}

// Do runs op until it succeeds, exhausts the policy, or hits a non-retryable
// error. The retry scope is a single external call, never a larger unit of
// work.
func Do(ctx context.Context, log logger.Logger, operation string, policy Policy, op func(context.Context) error) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	backoff := policy.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if !errors.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == policy.MaxAttempts {
			break
		}

		log.Warn("Retrying after transient failure", map[string]interface{}{
			"operation": operation,
			"attempt":   attempt,
			"backoff":   backoff.String(),
			"error":     lastErr.Error(),
		})

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}

		backoff *= 2
		if backoff > policy.MaxBackoff {
			backoff = policy.MaxBackoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, policy.MaxAttempts, lastErr)
}
