// Package metrics provides Prometheus instrumentation for task queue components.
package metrics

import (
	"errors"
	"time"

	"github.com/jzx17/gotaskqueue/pkg/types"
	"github.com/jzx17/gotaskqueue/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskqueue"

// Outcome label values for completed tasks
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomePanicked  = "panicked"
)

// Registry holds all metric instances for task queue components.
type Registry struct {
	// Manager Metrics
	TasksSubmitted *prometheus.CounterVec
	TasksRejected  *prometheus.CounterVec
	TasksCompleted *prometheus.CounterVec
	TasksAbandoned *prometheus.CounterVec
	TaskDuration   *prometheus.HistogramVec
	QueueWait      *prometheus.HistogramVec
	QueueDepth     *prometheus.GaugeVec

	// Buffer Metrics
	BufferHighWatermark *prometheus.CounterVec
	BufferLowWatermark  *prometheus.CounterVec
	BufferAboveHigh     *prometheus.GaugeVec
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		TasksSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "manager",
				Name:      "tasks_submitted_total",
				Help:      "Total number of tasks accepted into the queue",
			},
			[]string{"manager"},
		),

		TasksRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "manager",
				Name:      "tasks_rejected_total",
				Help:      "Total number of submissions rejected after shutdown began",
			},
			[]string{"manager"},
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "manager",
				Name:      "tasks_completed_total",
				Help:      "Total number of tasks executed, by outcome",
			},
			[]string{"manager", "outcome"},
		),

		TasksAbandoned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "manager",
				Name:      "tasks_abandoned_total",
				Help:      "Total number of queued tasks discarded at shutdown",
			},
			[]string{"manager"},
		),

		TaskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "manager",
				Name:      "task_duration_seconds",
				Help:      "Time spent executing tasks",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"manager"},
		),

		QueueWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "manager",
				Name:      "queue_wait_seconds",
				Help:      "Time tasks spent queued before execution",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"manager"},
		),

		QueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "manager",
				Name:      "queue_depth",
				Help:      "Number of tasks waiting in the queue",
			},
			[]string{"manager"},
		),

		BufferHighWatermark: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "buffer",
				Name:      "high_watermark_total",
				Help:      "Total number of times the buffer reached its high watermark",
			},
			[]string{"buffer"},
		),

		BufferLowWatermark: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "buffer",
				Name:      "low_watermark_total",
				Help:      "Total number of times the buffer drained to its low watermark",
			},
			[]string{"buffer"},
		),

		BufferAboveHigh: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "buffer",
				Name:      "above_high_watermark",
				Help:      "1 while the buffer is between a high and a low watermark signal",
			},
			[]string{"buffer"},
		),
	}
}

// ManagerObserver records a manager's events into the registry
type ManagerObserver struct {
	submitted prometheus.Counter
	rejected  prometheus.Counter
	abandoned prometheus.Counter
	succeeded prometheus.Counter
	failed    prometheus.Counter
	panicked  prometheus.Counter
	duration  prometheus.Observer
	wait      prometheus.Observer
	depth     prometheus.Gauge
}

var _ worker.Observer = (*ManagerObserver)(nil)

// ManagerObserver returns an observer for the named manager.
// Label values are resolved once here.
func (r *Registry) ManagerObserver(name string) *ManagerObserver {
	return &ManagerObserver{
		submitted: r.TasksSubmitted.WithLabelValues(name),
		rejected:  r.TasksRejected.WithLabelValues(name),
		abandoned: r.TasksAbandoned.WithLabelValues(name),
		succeeded: r.TasksCompleted.WithLabelValues(name, OutcomeSucceeded),
		failed:    r.TasksCompleted.WithLabelValues(name, OutcomeFailed),
		panicked:  r.TasksCompleted.WithLabelValues(name, OutcomePanicked),
		duration:  r.TaskDuration.WithLabelValues(name),
		wait:      r.QueueWait.WithLabelValues(name),
		depth:     r.QueueDepth.WithLabelValues(name),
	}
}

func (o *ManagerObserver) OnSubmitted(depth int) {
	o.submitted.Inc()
	o.depth.Set(float64(depth))
}

func (o *ManagerObserver) OnRejected() {
	o.rejected.Inc()
}

func (o *ManagerObserver) OnDequeued(depth int, wait time.Duration) {
	o.depth.Set(float64(depth))
	o.wait.Observe(wait.Seconds())
}

func (o *ManagerObserver) OnExecuted(duration time.Duration, err error) {
	o.duration.Observe(duration.Seconds())

	var taskErr *types.TaskError
	switch {
	case err == nil:
		o.succeeded.Inc()
	case errors.As(err, &taskErr) && taskErr.Panicked:
		o.panicked.Inc()
	default:
		o.failed.Inc()
	}
}

func (o *ManagerObserver) OnAbandoned() {
	o.abandoned.Inc()
	o.depth.Set(0)
}

// BufferWatermarks returns OnHigh and OnLow callbacks for the named buffer,
// suitable for buffer.BoundedQueueConfig.
func (r *Registry) BufferWatermarks(name string) (onHigh, onLow func(int)) {
	high := r.BufferHighWatermark.WithLabelValues(name)
	low := r.BufferLowWatermark.WithLabelValues(name)
	above := r.BufferAboveHigh.WithLabelValues(name)

	onHigh = func(int) {
		high.Inc()
		above.Set(1)
	}
	onLow = func(int) {
		low.Inc()
		above.Set(0)
	}
	return onHigh, onLow
}
