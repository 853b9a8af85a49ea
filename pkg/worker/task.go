package worker

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jzx17/gotaskqueue/pkg/future"
	"github.com/jzx17/gotaskqueue/pkg/types"
)

// WorkItem is a deferred computation paired with the promise that delivers
// its result. The promise is completed exactly once, either by Invoke or by Abandon.
type WorkItem[R any] struct {
	id         string
	fn         func() (R, error)
	promise    *future.Promise[R]
	clock      types.Clock
	enqueuedAt time.Time
	invoked    atomic.Bool
}

// NewWorkItem creates a work item using the real clock.
// The returned future is the only handle to the item's result.
func NewWorkItem[R any](fn func() (R, error)) (*WorkItem[R], *future.Future[R]) {
	return NewWorkItemWithClock(fn, types.NewRealClock())
}

// NewWorkItemWithClock creates a work item using clock for timings and bounded waits
func NewWorkItemWithClock[R any](fn func() (R, error), clock types.Clock) (*WorkItem[R], *future.Future[R]) {
	clock = types.OrRealClock(clock)
	item := &WorkItem[R]{
		id:         uuid.NewString(),
		fn:         fn,
		promise:    future.NewPromiseWithClock[R](clock),
		clock:      clock,
		enqueuedAt: clock.Now(),
	}
	return item, item.promise.Future()
}

// ID returns the work item ID
func (w *WorkItem[R]) ID() string {
	return w.id
}

// EnqueuedAt returns the creation time of the item
func (w *WorkItem[R]) EnqueuedAt() time.Time {
	return w.enqueuedAt
}

// Invoke runs the callable and completes the result handle.
// Only the first call runs the callable. A panic is recovered into a *types.TaskError.
func (w *WorkItem[R]) Invoke() error {
	if !w.invoked.CompareAndSwap(false, true) {
		return nil
	}

	start := w.clock.Now()
	value, err := w.call()
	duration := w.clock.Since(start)

	w.promise.Complete(types.Result[R]{Value: value, Error: err, Duration: duration})
	return err
}

// Abandon fails the result handle without running the callable
func (w *WorkItem[R]) Abandon() error {
	if !w.invoked.CompareAndSwap(false, true) {
		return nil
	}

	err := fmt.Errorf("task %s: %w", w.id, types.ErrAbandonedOnShutdown)
	w.promise.Reject(err)
	return err
}

// call executes the callable with panic recovery
func (w *WorkItem[R]) call() (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)

			var cause error
			switch v := r.(type) {
			case error:
				cause = v
			default:
				cause = fmt.Errorf("%v", v)
			}

			taskErr := types.NewTaskError(w.id, cause)
			taskErr.Panicked = true
			taskErr.WithContext("stack_trace", string(buf[:n]))

			var zero R
			value, err = zero, taskErr
		}
	}()

	if w.fn == nil {
		return value, types.NewTaskError(w.id, errors.New("task has no execution function"))
	}

	value, err = w.fn()
	if err != nil {
		err = types.NewTaskError(w.id, err)
	}
	return value, err
}
