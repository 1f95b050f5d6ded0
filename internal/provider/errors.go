package provider

import (
	"fmt"
	"time"
)

// ErrProviderUnavailable indicates the provider is down or unreachable.
// Transient: retried with backoff before being surfaced.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider unavailable: %v", e.Err)
	}
	return "provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate-limit error (429).
// Transient: retried, honoring RetryAfter when the provider supplied one.
// The OpenAI adapter leaves RetryAfter zero because the client library
// does not expose the Retry-After header; computed backoff applies then.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderRejected indicates the provider permanently refused the
// request (malformed request, auth failure). Never retried.
type ErrProviderRejected struct {
	StatusCode int
	Err        error
}

func (e *ErrProviderRejected) Error() string {
	return fmt.Sprintf("provider rejected request (status %d): %v", e.StatusCode, e.Err)
}

func (e *ErrProviderRejected) Unwrap() error { return e.Err }

// ErrCapacityExceeded indicates the global concurrency limit was hit and
// the limiter is configured to fail fast instead of queueing.
type ErrCapacityExceeded struct {
	Limit int64
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("provider capacity exceeded (limit %d in-flight calls)", e.Limit)
}
