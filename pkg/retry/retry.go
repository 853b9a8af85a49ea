package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jzx17/gotaskqueue/pkg/types"
)

// RetryCondition reports whether err is worth another attempt
type RetryCondition func(error) bool

// Policy describes how a callable is retried
type Policy struct {
	// MaxAttempts is the total number of calls, including the first
	MaxAttempts int

	// Backoff computes the wait before each retry; nil retries immediately
	Backoff BackoffStrategy

	// RetryIf filters retryable errors; nil uses DefaultRetryCondition
	RetryIf RetryCondition

	// OnRetry is called before waiting for each retry
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultPolicy returns three attempts with exponential backoff from 100ms
func DefaultPolicy() *Policy {
	return &Policy{
		MaxAttempts: 3,
		Backoff:     NewExponentialBackoff(100 * time.Millisecond),
	}
}

// Validate checks the policy
func (p *Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1, got %d", types.ErrInvalidConfig, p.MaxAttempts)
	}
	return nil
}

// DefaultRetryCondition retries every error except context cancellation,
// queue shutdown and submission rejection.
func DefaultRetryCondition(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case types.IsAbandoned(err), types.IsRejected(err):
		return false
	default:
		return true
	}
}

// ExhaustedError is returned when every attempt failed
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Do calls fn until it succeeds, the policy gives up or ctx is done.
//
// A non-retryable error is returned as is. When attempts run out the last
// error is wrapped in an *ExhaustedError. Cancellation while waiting returns
// ctx.Err().
func Do[R any](ctx context.Context, policy *Policy, clock types.Clock, fn func() (R, error)) (R, error) {
	var zero R

	if policy == nil {
		policy = DefaultPolicy()
	}
	if err := policy.Validate(); err != nil {
		return zero, err
	}
	clock = types.OrRealClock(clock)

	retryIf := policy.RetryIf
	if retryIf == nil {
		retryIf = DefaultRetryCondition
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !retryIf(err) {
			return zero, err
		}
		if attempt >= policy.MaxAttempts {
			return zero, &ExhaustedError{Attempts: attempt, Last: err}
		}

		var delay time.Duration
		if policy.Backoff != nil {
			delay = policy.Backoff.NextDelay(attempt)
		}
		if policy.OnRetry != nil {
			policy.OnRetry(attempt, err, delay)
		}

		if err := wait(ctx, clock, delay); err != nil {
			return zero, err
		}
	}
}

// Wrap returns a zero-argument callable that retries fn under policy,
// suitable for submitting to a worker.Manager.
func Wrap[R any](policy *Policy, clock types.Clock, fn func() (R, error)) func() (R, error) {
	return func() (R, error) {
		return Do(context.Background(), policy, clock, fn)
	}
}

func wait(ctx context.Context, clock types.Clock, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := clock.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}
