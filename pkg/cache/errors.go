package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound reports a key the backend does not hold. Backends translate
	// it into a miss before it reaches callers of [Cache.Get].
	ErrNotFound = errors.New("not found")

	// ErrNetwork reports that a remote backend could not be reached.
	ErrNetwork = errors.New("network error")
)

// RetryableError marks a failure that may succeed when attempted again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err or anything it wraps was marked by [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// backoff is the retry schedule shared by the remote backends.
var backoff = struct {
	attempts int
	first    time.Duration
}{attempts: 3, first: 100 * time.Millisecond}

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// [Retryable], or the attempts run out. The wait doubles after each failure
// and is cut short by ctx.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := backoff.first
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == backoff.attempts {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}
