package gemini

import (
	"context"
	"time"
)

// Vars so tests can shrink the schedule.
var (
	backoffBase = 1 * time.Second
	backoffCap  = 10 * time.Second
)

// retryWithBackoff runs fn up to attempts times, sleeping between failures
// with exponential backoff starting at backoffBase and capped at backoffCap.
// It stops early on a non-retryable error or a cancelled context, returning
// the last error.
func retryWithBackoff(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	delay := backoffBase
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if !IsRetryable(err) || i == attempts-1 {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
		delay *= 2
		if delay > backoffCap {
			delay = backoffCap
		}
	}
	return err
}
