package core

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryExternal runs fn with bounded exponential backoff, returning an
// ExternalServiceError once the retry budget is exhausted. maxRetries counts
// retries after the initial attempt; context cancellation aborts the loop.
func RetryExternal(ctx context.Context, service string, maxRetries uint64, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 2 * time.Second

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx)
	if err := backoff.Retry(fn, policy); err != nil {
		return &ExternalServiceError{Service: service, Err: err}
	}
	return nil
}
