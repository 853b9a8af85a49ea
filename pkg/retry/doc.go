// Package retry wraps zero-argument callables with retry and backoff.
//
// The queue itself never retries: a failed task resolves its future with the
// failure. Callers who want retries wrap the callable before submitting it,
// so every attempt and every backoff wait runs on the worker goroutine in
// place of the single call.
//
// Backoff strategies:
//   - FixedBackoff: the same delay before every retry
//   - ExponentialBackoff: delay multiplied per retry, capped by a maximum
//
// Jitter:
//   - FullJitter: random within [0, delay)
//   - EqualJitter: delay/2 plus random within [0, delay/2)
//
// Basic usage example:
//
//	policy := &retry.Policy{
//		MaxAttempts: 4,
//		Backoff:     retry.NewExponentialBackoff(50*time.Millisecond, retry.WithJitter(retry.EqualJitter)),
//	}
//
//	fut, err := manager.Submit(retry.Wrap(policy, nil, fetchReading))
//	if err != nil {
//		return err
//	}
//	reading, err := fut.Get()
//
// Custom retry conditions:
//
//	policy.RetryIf = func(err error) bool {
//		return errors.Is(err, errSensorBusy)
//	}
//
// When every attempt fails the error is an *ExhaustedError that unwraps to
// the last failure, so errors.Is and errors.As still see the original cause.
package retry
