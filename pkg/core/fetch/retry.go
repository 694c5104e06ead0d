package fetch

import (
	"context"
	"fmt"
	"log"
	"time"
)

// RetryConfig controls the exponential backoff applied to transient fetch
// failures.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig keeps a single analysis request well under the UI's
// patience while still absorbing one-off network blips.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:     2,
	InitialBackoff: 200 * time.Millisecond,
	MaxBackoff:     2 * time.Second,
}

// WithRetry runs fn with exponential backoff. Permanent errors (as judged by
// isPermanent) abort immediately.
func WithRetry(ctx context.Context, config RetryConfig, fn func() error, isPermanent func(error) bool) error {
	var lastErr error
	backoff := config.InitialBackoff

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if isPermanent != nil && isPermanent(err) {
			return err
		}
		if attempt < config.MaxRetries {
			log.Printf("[Fetch] retry %d/%d after error: %v", attempt+1, config.MaxRetries, err)
		}
	}

	return fmt.Errorf("failed after %d retries: %w", config.MaxRetries, lastErr)
}
