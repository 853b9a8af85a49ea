package worker

import "time"

// Observer receives task lifecycle events from a Manager.
// Methods are called synchronously from the submitting goroutine or the
// worker goroutine and must not block.
type Observer interface {
	// OnSubmitted is called after a task is queued; depth is the queue length including it
	OnSubmitted(depth int)
	// OnRejected is called when a submission is refused after shutdown began
	OnRejected()
	// OnDequeued is called when the worker takes a task; wait is its time in the queue
	OnDequeued(depth int, wait time.Duration)
	// OnExecuted is called after a task ran; err is nil on success
	OnExecuted(duration time.Duration, err error)
	// OnAbandoned is called for each task discarded on shutdown
	OnAbandoned()
}

// NoopObserver ignores every event
type NoopObserver struct{}

func (NoopObserver) OnSubmitted(int)                 {}
func (NoopObserver) OnRejected()                     {}
func (NoopObserver) OnDequeued(int, time.Duration)   {}
func (NoopObserver) OnExecuted(time.Duration, error) {}
func (NoopObserver) OnAbandoned()                    {}
