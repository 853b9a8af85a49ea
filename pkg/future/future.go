// Package future provides a one-shot result channel: a Promise written once by
// the producer of a value and a Future read any number of times by observers.
package future

import (
	"context"
	"sync"
	"time"

	"github.com/jzx17/gotaskqueue/pkg/types"
)

// State defines the state of a Future
type State int32

const (
	// StatePending means no result has been delivered yet
	StatePending State = iota
	// StateSucceeded means the result carries a value
	StateSucceeded
	// StateFailed means the result carries an error
	StateFailed
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Future is the read side of a one-shot result channel.
// Once completed, every reader observes the same cached result.
type Future[R any] struct {
	mu     sync.Mutex
	done   chan struct{}
	state  State
	result types.Result[R]
	clock  types.Clock
}

// Promise is the write side of a one-shot result channel
type Promise[R any] struct {
	future *Future[R]
}

// NewPromise creates a pending promise with the real clock
func NewPromise[R any]() *Promise[R] {
	return NewPromiseWithClock[R](types.NewRealClock())
}

// NewPromiseWithClock creates a pending promise whose future uses clock for bounded waits
func NewPromiseWithClock[R any](clock types.Clock) *Promise[R] {
	return &Promise[R]{
		future: &Future[R]{
			done:  make(chan struct{}),
			clock: types.OrRealClock(clock),
		},
	}
}

// Future returns the read side paired with this promise
func (p *Promise[R]) Future() *Future[R] {
	return p.future
}

// Complete delivers result. Only the first completion takes effect;
// it returns false if the future was already completed.
func (p *Promise[R]) Complete(result types.Result[R]) bool {
	f := p.future

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StatePending {
		return false
	}

	f.result = result
	if result.Error != nil {
		f.state = StateFailed
	} else {
		f.state = StateSucceeded
	}
	close(f.done)
	return true
}

// Resolve completes the future with a value
func (p *Promise[R]) Resolve(value R) bool {
	return p.Complete(types.Result[R]{Value: value})
}

// Reject completes the future with an error. A nil err is ignored and returns false.
func (p *Promise[R]) Reject(err error) bool {
	if err == nil {
		return false
	}
	return p.Complete(types.Result[R]{Error: err})
}

// Done returns a channel that is closed once the future is completed
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// State returns the current state
func (f *Future[R]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Get blocks until the future is completed and returns its value or error
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.load()
}

// GetContext blocks until the future is completed or ctx is done.
// Cancelling ctx abandons the wait only; the underlying task is unaffected.
func (f *Future[R]) GetContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.load()
	default:
	}

	select {
	case <-f.done:
		return f.load()
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// GetWithTimeout waits at most timeout for the result.
// It returns types.ErrTimeout if the future is still pending when the timeout elapses.
func (f *Future[R]) GetWithTimeout(timeout time.Duration) (R, error) {
	select {
	case <-f.done:
		return f.load()
	default:
	}

	var zero R
	if timeout <= 0 {
		return zero, types.ErrTimeout
	}

	timer := f.clock.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.load()
	case <-timer.C():
		return zero, types.ErrTimeout
	}
}

// GetOrDefault returns the value if it arrives within timeout and succeeded,
// otherwise fallback
func (f *Future[R]) GetOrDefault(timeout time.Duration, fallback R) R {
	value, err := f.GetWithTimeout(timeout)
	if err != nil {
		return fallback
	}
	return value
}

// Poll returns the result without blocking. The boolean is false while pending.
func (f *Future[R]) Poll() (types.Result[R], bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StatePending {
		return types.Result[R]{}, false
	}
	return f.result, true
}

// Result blocks until completion and returns the full result, including duration
func (f *Future[R]) Result() types.Result[R] {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

func (f *Future[R]) load() (R, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result.Value, f.result.Error
}

// Rejected returns a future that is already failed with err
func Rejected[R any](err error) *Future[R] {
	p := NewPromise[R]()
	p.Reject(err)
	return p.Future()
}

// Resolved returns a future that already holds value
func Resolved[R any](value R) *Future[R] {
	p := NewPromise[R]()
	p.Resolve(value)
	return p.Future()
}
