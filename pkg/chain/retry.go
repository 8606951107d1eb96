package chain

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"time"
)

// ErrRetryable marks an error as transient.
var ErrRetryable = errors.New("retryable chain error")

// RetryConfig bounds retries of read-only chain calls. Dispatch is never retried.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig is 3 attempts backing off from 500ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}
}

// Retry runs op until it succeeds, returns a non-retryable error, or
// cfg.MaxAttempts is reached.
func Retry[T any](ctx context.Context, cfg RetryConfig, op func(context.Context) (T, error)) (T, error) {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var result T
	var err error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err = op(ctx)
		if err == nil || !IsRetryable(err) {
			return result, err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		timer := time.NewTimer(backoff(attempt, cfg.BaseDelay, cfg.MaxDelay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}
	}
	return result, fmt.Errorf("failed after %d attempts: %w", cfg.MaxAttempts, err)
}

func backoff(attempt int, base, maxDelay time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delay := base << attempt
	if maxDelay > 0 && delay > maxDelay {
		delay = maxDelay
	}
	half := delay / 2
	if half <= 0 {
		return delay
	}
	return half + rand.N(half) //nolint:gosec // jitter only
}

// IsRetryable reports whether err is a transient transport failure.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrRetryable) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// WrapRetryable marks err as transient.
func WrapRetryable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRetryable, err)
}
