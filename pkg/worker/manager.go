package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jzx17/gotaskqueue/pkg/future"
	"github.com/jzx17/gotaskqueue/pkg/types"
)

// Manager owns a pending queue and the single worker goroutine draining it.
// Producers call Submit from any goroutine; tasks run one at a time in
// submission order.
type Manager[R any] struct {
	config *Config
	queue  *pendingQueue[R]
	worker *taskWorker[R]
	logger *slog.Logger

	totalSubmitted atomic.Int64
	totalRejected  atomic.Int64
}

// NewManager creates a manager and starts its worker.
// Callers must call Shutdown (or Close) to join the worker.
func NewManager[R any](config *Config) (*Manager[R], error) {
	if config == nil {
		config = DefaultConfig()
	}

	cfg := *config
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	logger := cfg.Logger.With("manager", cfg.Name, "policy", cfg.Policy.String())
	queue := newPendingQueue[R]()

	m := &Manager[R]{
		config: &cfg,
		queue:  queue,
		worker: newTaskWorker(queue, &cfg, logger),
		logger: logger,
	}

	go m.worker.run()
	return m, nil
}

// Submit queues fn and returns its result handle immediately.
// It fails with types.ErrSubmissionRejected once shutdown has begun.
func (m *Manager[R]) Submit(fn func() (R, error)) (*future.Future[R], error) {
	if fn == nil {
		return nil, types.ErrNilTask
	}

	item, f := NewWorkItemWithClock(fn, m.config.Clock)

	depth, err := m.queue.push(item)
	if err != nil {
		m.totalRejected.Add(1)
		m.config.Observer.OnRejected()
		m.logger.Debug("submission rejected", "task_id", item.ID())
		return nil, fmt.Errorf("manager %s: %w", m.config.Name, err)
	}

	m.totalSubmitted.Add(1)
	m.config.Observer.OnSubmitted(depth)
	m.logger.Debug("task submitted", "task_id", item.ID(), "queue_len", depth)
	return f, nil
}

// Shutdown stops accepting work, applies the shutdown policy to queued
// tasks and blocks until the worker has exited. Calling it again waits for
// the same termination.
func (m *Manager[R]) Shutdown() error {
	return m.ShutdownContext(context.Background())
}

// ShutdownContext is Shutdown with a bound on the wait. If ctx ends first
// it returns ctx.Err(); the worker still finishes applying the policy.
func (m *Manager[R]) ShutdownContext(ctx context.Context) error {
	if pending, ok := m.queue.beginShutdown(); ok {
		m.logger.Info("shutdown requested", "queue_len", pending)
	}

	select {
	case <-m.worker.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("manager %s: waiting for worker: %w", m.config.Name, ctx.Err())
	}
}

// Close implements io.Closer
func (m *Manager[R]) Close() error {
	return m.Shutdown()
}

// Done returns a channel closed once the worker has exited
func (m *Manager[R]) Done() <-chan struct{} {
	return m.worker.done
}

// Name returns the manager name
func (m *Manager[R]) Name() string {
	return m.config.Name
}

// Policy returns the shutdown policy
func (m *Manager[R]) Policy() types.ShutdownPolicy {
	return m.config.Policy
}

// State returns the lifecycle state
func (m *Manager[R]) State() types.ManagerState {
	return m.queue.State()
}

// IsRunning checks if the manager accepts submissions
func (m *Manager[R]) IsRunning() bool {
	return m.State() == types.StateRunning
}

// Len returns the number of queued tasks, excluding the one running
func (m *Manager[R]) Len() int {
	return m.queue.Len()
}

// Stats returns a snapshot of manager statistics
func (m *Manager[R]) Stats() Stats {
	return Stats{
		Name:         m.config.Name,
		Policy:       m.config.Policy,
		State:        m.State(),
		WorkerState:  m.worker.State(),
		QueueLength:  m.Len(),
		Submitted:    m.totalSubmitted.Load(),
		Rejected:     m.totalRejected.Load(),
		Processed:    m.worker.totalProcessed.Load(),
		Failed:       m.worker.totalFailed.Load(),
		Abandoned:    m.worker.totalAbandoned.Load(),
		LastTaskTime: m.worker.lastTask(),
	}
}

// Stats defines manager statistics
type Stats struct {
	Name         string
	Policy       types.ShutdownPolicy
	State        types.ManagerState
	WorkerState  WorkerState
	QueueLength  int
	Submitted    int64
	Rejected     int64
	Processed    int64
	Failed       int64
	Abandoned    int64
	LastTaskTime time.Time
}

// Completed returns the number of tasks that ran, successfully or not
func (s Stats) Completed() int64 {
	return s.Processed + s.Failed
}

// GetSuccessRate gets the success rate of tasks that ran
func (s Stats) GetSuccessRate() float64 {
	total := s.Completed()
	if total == 0 {
		return 0
	}
	return float64(s.Processed) / float64(total)
}
