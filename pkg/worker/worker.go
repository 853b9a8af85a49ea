package worker

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jzx17/gotaskqueue/pkg/types"
)

// WorkerState defines the state of the worker loop
type WorkerState int32

const (
	// WorkerStateIdle represents a worker waiting for tasks
	WorkerStateIdle WorkerState = iota
	// WorkerStateWorking represents a worker running a task
	WorkerStateWorking
	// WorkerStateDraining represents a worker running the remaining tasks after shutdown
	WorkerStateDraining
	// WorkerStateDiscarding represents a worker failing the remaining tasks after shutdown
	WorkerStateDiscarding
	// WorkerStateStopped represents a worker that has exited
	WorkerStateStopped
)

// String returns the string representation of WorkerState
func (ws WorkerState) String() string {
	switch ws {
	case WorkerStateIdle:
		return "idle"
	case WorkerStateWorking:
		return "working"
	case WorkerStateDraining:
		return "draining"
	case WorkerStateDiscarding:
		return "discarding"
	case WorkerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// taskWorker is the single consumer of a pending queue
type taskWorker[R any] struct {
	queue  *pendingQueue[R]
	policy types.ShutdownPolicy
	state  atomic.Int32
	done   chan struct{}

	// statistics
	totalProcessed atomic.Int64
	totalFailed    atomic.Int64
	totalAbandoned atomic.Int64
	lastTaskTime   atomic.Int64 // Unix nanosecond timestamp

	clock        types.Clock
	logger       *slog.Logger
	observer     Observer
	errorHandler types.ErrorHandler
}

func newTaskWorker[R any](queue *pendingQueue[R], config *Config, logger *slog.Logger) *taskWorker[R] {
	return &taskWorker[R]{
		queue:        queue,
		policy:       config.Policy,
		done:         make(chan struct{}),
		clock:        config.Clock,
		logger:       logger,
		observer:     config.Observer,
		errorHandler: config.ErrorHandler,
	}
}

// run is the worker loop. It returns after the shutdown policy pass.
func (w *taskWorker[R]) run() {
	defer close(w.done)
	defer w.queue.markStopped()
	defer w.setState(WorkerStateStopped)

	w.logger.Debug("worker started")

	for {
		item, depth, ok := w.queue.next()
		if !ok {
			break
		}
		w.process(item, depth, WorkerStateWorking)
		w.setState(WorkerStateIdle)
	}

	switch w.policy {
	case types.PolicyDiscard:
		w.discardRemaining()
	default:
		w.drainRemaining()
	}

	w.logger.Info("worker exited",
		"processed", w.totalProcessed.Load(),
		"failed", w.totalFailed.Load(),
		"abandoned", w.totalAbandoned.Load())
}

// drainRemaining runs every item left in the queue. Submissions are
// already rejected, so the queue only shrinks.
func (w *taskWorker[R]) drainRemaining() {
	w.setState(WorkerStateDraining)

	drained := 0
	for {
		item, depth, ok := w.queue.tryPop()
		if !ok {
			break
		}
		w.process(item, depth, WorkerStateDraining)
		drained++
	}

	if drained > 0 {
		w.logger.Info("drained queued tasks on shutdown", "count", drained)
	}
}

// discardRemaining fails every item left in the queue without running it
func (w *taskWorker[R]) discardRemaining() {
	w.setState(WorkerStateDiscarding)

	items := w.queue.drainAll()
	for _, item := range items {
		_ = item.Abandon()
		w.totalAbandoned.Add(1)
		w.observer.OnAbandoned()
		w.logger.Debug("task abandoned", "task_id", item.ID())
	}

	if len(items) > 0 {
		w.logger.Warn("discarded queued tasks on shutdown", "count", len(items))
	}
}

// process runs a single item outside the queue lock
func (w *taskWorker[R]) process(item *WorkItem[R], depth int, state WorkerState) {
	w.setState(state)

	start := w.clock.Now()
	w.lastTaskTime.Store(start.UnixNano())
	w.observer.OnDequeued(depth, start.Sub(item.EnqueuedAt()))

	err := item.Invoke()
	duration := w.clock.Since(start)

	if err != nil {
		w.totalFailed.Add(1)
		w.handleError(item, err)
	} else {
		w.totalProcessed.Add(1)
	}
	w.observer.OnExecuted(duration, err)
}

// handleError reports a task failure. The failure itself is already in the item's future.
func (w *taskWorker[R]) handleError(item *WorkItem[R], err error) {
	w.logger.Debug("task failed", "task_id", item.ID(), "error", err)

	if w.errorHandler != nil {
		if handledErr := w.errorHandler(err); handledErr != nil {
			w.logger.Warn("error handler returned error", "task_id", item.ID(), "error", handledErr)
		}
	}
}

func (w *taskWorker[R]) setState(state WorkerState) {
	w.state.Store(int32(state))
}

// State returns the current worker state
func (w *taskWorker[R]) State() WorkerState {
	return WorkerState(w.state.Load())
}

func (w *taskWorker[R]) lastTask() time.Time {
	ns := w.lastTaskTime.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
