/*
Package worker provides a single-worker task queue: producers submit zero-argument
callables from any goroutine, one background worker runs them in submission order,
and each submission returns a future for its result.

# Overview

This package implements:
- A Manager that owns an unbounded FIFO and exactly one worker goroutine
- Work items pairing a callable with a one-shot result channel
- Two shutdown policies: drain (run everything queued) and discard (fail everything queued)
- Panic recovery and failure isolation per task
- Statistics and an Observer hook for metrics

# Core Components

## Manager

The facade exposed to producers:
- Submit queues a callable and returns a *future.Future immediately
- Shutdown flips the manager out of the running state, wakes the worker and waits for it
- Submissions after shutdown began fail with types.ErrSubmissionRejected

## WorkItem

A callable plus its promise. Invoke runs the callable once and completes the
promise with the value or a *types.TaskError; Abandon completes it with
types.ErrAbandonedOnShutdown instead.

## Pending queue and worker loop

The queue and the manager state share one mutex and one condition variable, so a
submission either lands before the shutdown flip and is seen by the shutdown pass,
or is rejected. The worker never holds the lock while a task runs.

Worker states:

	idle -> working -> idle ...
	(shutdown) -> draining | discarding -> stopped

# Usage Examples

Basic usage:

	m, err := worker.NewManager[int](worker.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer m.Shutdown()

	f, err := m.Submit(func() (int, error) {
		return 42, nil
	})
	if err != nil {
		log.Printf("submit failed: %v", err)
	}

	value, err := f.Get()

Bounded wait on a result:

	value, err := f.GetWithTimeout(time.Second)
	if errors.Is(err, types.ErrTimeout) {
		log.Println("still running")
	}

Discard policy:

	m, _ := worker.NewManager[string](&worker.Config{Policy: types.PolicyDiscard})
	f, _ := m.Submit(slowTask)
	m.Shutdown()
	_, err := f.Get() // types.IsAbandoned(err) if the task had not started

# Error Handling

A task's failure, including a recovered panic, is delivered only through its own
future and never stops the worker. Every future reaches a final state: a value,
a *types.TaskError, or types.ErrAbandonedOnShutdown.
*/
package worker
