package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/jzx17/gotaskqueue/internal/testutils"
	"github.com/jzx17/gotaskqueue/pkg/buffer"
	"github.com/jzx17/gotaskqueue/pkg/types"
	"github.com/jzx17/gotaskqueue/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_RegistersEverything(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRegistry(reg)

	// a second registry on the same registerer collides
	assert.Panics(t, func() { NewRegistry(reg) })
}

func TestManagerObserver_Outcomes(t *testing.T) {
	r := NewRegistry(prometheus.NewRegistry())
	o := r.ManagerObserver("sensors")

	o.OnSubmitted(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(r.QueueDepth.WithLabelValues("sensors")))

	o.OnDequeued(2, 10*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.QueueDepth.WithLabelValues("sensors")))

	o.OnExecuted(time.Millisecond, nil)
	o.OnExecuted(time.Millisecond, types.NewTaskError("t1", errors.New("boom")))
	panicked := types.NewTaskError("t2", errors.New("panic"))
	panicked.Panicked = true
	o.OnExecuted(time.Millisecond, panicked)
	o.OnRejected()
	o.OnAbandoned()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.TasksSubmitted.WithLabelValues("sensors")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TasksCompleted.WithLabelValues("sensors", OutcomeSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TasksCompleted.WithLabelValues("sensors", OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TasksCompleted.WithLabelValues("sensors", OutcomePanicked)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TasksRejected.WithLabelValues("sensors")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TasksAbandoned.WithLabelValues("sensors")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.QueueDepth.WithLabelValues("sensors")))
}

func TestManagerObserver_WiredIntoManager(t *testing.T) {
	r := NewRegistry(prometheus.NewRegistry())

	config := worker.DefaultConfig()
	config.Name = "wired"
	config.Logger = testutils.DiscardLogger()
	config.Observer = r.ManagerObserver("wired")

	m, err := worker.NewManager[int](config)
	require.NoError(t, err)

	tasks := []func() (int, error){
		func() (int, error) { return 1, nil },
		func() (int, error) { return 0, errors.New("bad reading") },
		func() (int, error) { panic("sensor fault") },
		func() (int, error) { return 4, nil },
	}
	for _, task := range tasks {
		_, err := m.Submit(task)
		require.NoError(t, err)
	}

	require.NoError(t, m.Shutdown())

	_, err = m.Submit(func() (int, error) { return 5, nil })
	assert.ErrorIs(t, err, types.ErrSubmissionRejected)

	assert.Equal(t, 4.0, testutil.ToFloat64(r.TasksSubmitted.WithLabelValues("wired")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.TasksCompleted.WithLabelValues("wired", OutcomeSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TasksCompleted.WithLabelValues("wired", OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TasksCompleted.WithLabelValues("wired", OutcomePanicked)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TasksRejected.WithLabelValues("wired")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.TaskDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(r.QueueWait))
}

func TestBufferWatermarks(t *testing.T) {
	r := NewRegistry(prometheus.NewRegistry())
	onHigh, onLow := r.BufferWatermarks("telemetry")

	q, err := buffer.NewBoundedQueue[int](&buffer.BoundedQueueConfig{
		Capacity:      4,
		HighWatermark: 3,
		LowWatermark:  1,
		OnHigh:        onHigh,
		OnLow:         onLow,
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, q.TryPush(i))
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(r.BufferHighWatermark.WithLabelValues("telemetry")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.BufferAboveHigh.WithLabelValues("telemetry")))

	for i := 0; i < 2; i++ {
		_, err := q.TryPop()
		require.NoError(t, err)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(r.BufferLowWatermark.WithLabelValues("telemetry")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.BufferAboveHigh.WithLabelValues("telemetry")))
}
