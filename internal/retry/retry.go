// Package retry provides a generic exponential-backoff executor for calls to
// the remote analysis service.
package retry

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMaxAttempts is the number of consecutive failures tolerated
	// before the last error is propagated to the caller.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is the backoff unit; the wait after attempt n is
	// BaseDelay * 2^n. There is no wait after the final attempt.
	DefaultBaseDelay = time.Second
)

// Config controls retry behavior. Zero values fall back to the defaults.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	return c
}

// Do executes op up to cfg.MaxAttempts times, waiting cfg.BaseDelay * 2^n
// between attempts. Each failed attempt is logged before the backoff wait.
// The wait respects ctx cancellation. Do is pure control flow: it never
// inspects or alters the operation's result, and returns the last error once
// attempts are exhausted.
func Do[T any](ctx context.Context, logger *zap.Logger, cfg Config, op func(context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		logger.Warn("transient-error",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", cfg.MaxAttempts),
			zap.Error(err),
		)

		// No wait after the last attempt.
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		backoff := cfg.BaseDelay * (1 << attempt)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return zero, lastErr
}
