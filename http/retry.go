package http

import (
	"context"
	"errors"
	"time"
)

// DefaultRetryDelays returns the backoff delays between download attempts:
// 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// permanent marks a failure that retrying cannot fix (bad URL, 4xx status).
type permanent struct{ err error }

func (p *permanent) Error() string { return p.err.Error() }
func (p *permanent) Unwrap() error { return p.err }

// permanentErr wraps err so withRetry fails fast instead of backing off.
func permanentErr(err error) error { return &permanent{err: err} }

// withRetry runs fn until it succeeds, retrying once per delay with that
// delay in between. Errors wrapped by permanentErr are returned immediately.
// The delays are injectable so tests don't wait for real backoff.
func withRetry(ctx context.Context, delays []time.Duration, fn func() error) error {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		var p *permanent
		if errors.As(err, &p) {
			return p.err
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delays[attempt]):
		}
	}

	return lastErr
}
