package testutils

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/jzx17/gotaskqueue/pkg/types"
	"github.com/stretchr/testify/require"
)

// NewMockClock creates a mock clock for testing
func NewMockClock(t testing.TB) *quartz.Mock {
	return quartz.NewMock(t)
}

// ClockWrapper wraps quartz.Mock to implement types.Clock.
// It counts the timers created through it so tests can wait for a
// goroutine to arm its timer before advancing time.
type ClockWrapper struct {
	*quartz.Mock
	timers atomic.Int64
}

// NewClockWrapper creates a new ClockWrapper
func NewClockWrapper(mock *quartz.Mock) *ClockWrapper {
	return &ClockWrapper{Mock: mock}
}

// Now returns the current mock time
func (c *ClockWrapper) Now() time.Time {
	return c.Mock.Now()
}

// Since returns the mock time elapsed since t
func (c *ClockWrapper) Since(t time.Time) time.Duration {
	return c.Mock.Since(t)
}

// After returns a channel that delivers the mock time after the duration
func (c *ClockWrapper) After(d time.Duration) <-chan time.Time {
	return c.NewTimer(d).C()
}

// Sleep blocks until the mock clock has advanced by d
func (c *ClockWrapper) Sleep(d time.Duration) {
	<-c.NewTimer(d).C()
}

// NewTimer creates a mock timer
func (c *ClockWrapper) NewTimer(d time.Duration) types.Timer {
	timer := c.Mock.NewTimer(d)
	c.timers.Add(1)
	return &TimerWrapper{timer: timer}
}

// TimersCreated returns the number of timers created so far
func (c *ClockWrapper) TimersCreated() int64 {
	return c.timers.Load()
}

// WaitForTimers blocks until at least n timers have been created
func (c *ClockWrapper) WaitForTimers(t testing.TB, n int64) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.TimersCreated() >= n
	}, 2*time.Second, time.Millisecond, "expected %d timers to be created", n)
}

// AdvanceAndWait advances the mock clock and waits for fired timers to be delivered
func (c *ClockWrapper) AdvanceAndWait(t testing.TB, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c.Mock.Advance(d).MustWait(ctx)
}

// TimerWrapper wraps quartz timer
type TimerWrapper struct {
	timer *quartz.Timer
}

func (t *TimerWrapper) C() <-chan time.Time {
	return t.timer.C
}

func (t *TimerWrapper) Stop() bool {
	return t.timer.Stop()
}

func (t *TimerWrapper) Reset(d time.Duration) bool {
	return t.timer.Reset(d)
}
