// Package retry provides the single retry/backoff policy used by every
// remote call in this codebase. Call sites differ only in their Policy
// values (attempt count, base delay, backoff curve), never in the loop
// itself.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// BackoffFunc computes the wait before the next attempt. attempt is the
// 1-based number of the attempt that just failed.
type BackoffFunc func(base time.Duration, attempt int) time.Duration

// Linear waits base*attempt: 1s, 2s, 3s, ...
func Linear(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(attempt)
}

// Exponential waits base*2^(attempt-1): 1s, 2s, 4s, ...
func Exponential(base time.Duration, attempt int) time.Duration {
	return base << (attempt - 1)
}

// HTTPStatusCarrier is implemented by errors that carry an upstream HTTP
// status code (see docstore.StatusError). The policy inspects it to decide
// whether an error is worth retrying at all.
type HTTPStatusCarrier interface {
	HTTPStatus() int
}

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// BaseDelay seeds the backoff curve.
	BaseDelay time.Duration

	// Backoff defaults to Linear when nil.
	Backoff BackoffFunc

	// NonRetryable lists HTTP status codes that abort immediately: the
	// resource is gone or access is denied, and retrying cannot change
	// that. 401 and 404 at every call site in practice.
	NonRetryable []int
}

// Do runs op until it succeeds, a non-retryable error occurs, the context
// is cancelled, or MaxAttempts is exhausted. Exhaustion surfaces the last
// observed error wrapped with the attempt count.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := p.Backoff
	if backoff == nil {
		backoff = Linear
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if p.nonRetryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(p.BaseDelay, attempt)):
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func (p Policy) nonRetryable(err error) bool {
	var carrier HTTPStatusCarrier
	if !errors.As(err, &carrier) {
		return false
	}
	status := carrier.HTTPStatus()
	for _, code := range p.NonRetryable {
		if status == code {
			return true
		}
	}
	return false
}
