package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures to reach a remote cache.
var ErrNetwork = errors.New("network error")

// RetryableError marks an error as transient. [Backoff.Do] retries only these.
type RetryableError struct{ Err error }

// Retryable wraps err as a [RetryableError]. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or an error it wraps, is a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is a capped exponential retry policy.
type Backoff struct {
	// Attempts is the total number of calls, including the first. Values
	// below 1 mean a single call.
	Attempts int
	// Base is the wait after the first failure; it doubles per retry.
	Base time.Duration
	// Max caps a single wait. Zero means no cap.
	Max time.Duration
}

// DefaultBackoff is used by caches that are not given a policy.
var DefaultBackoff = Backoff{Attempts: 3, Base: 100 * time.Millisecond, Max: 2 * time.Second}

// Do calls fn until it succeeds, returns an error that is not retryable, the
// attempts are used up, or ctx is done. It returns the last error from fn, or
// ctx.Err() when ctx ended the wait.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(b.delay(i))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}

// delay returns the wait after the given zero-based failed attempt.
func (b Backoff) delay(attempt int) time.Duration {
	d := b.Base << attempt
	if d < b.Base || (b.Max > 0 && d > b.Max) {
		// d < Base catches shift overflow.
		return b.Max
	}
	return d
}
