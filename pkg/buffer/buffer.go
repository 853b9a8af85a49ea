// Package buffer provides a bounded blocking FIFO with high/low watermark signaling.
//
// Producers block in Push while the buffer is full and consumers block in Pop
// while it is empty. Each direction waits on its own condition variable so a
// push only wakes consumers and a pop only wakes producers.
package buffer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jzx17/gotaskqueue/pkg/types"
)

// Predefined errors
var (
	// ErrBufferClosed indicates the buffer was closed
	ErrBufferClosed = errors.New("buffer is closed")

	// ErrBufferFull indicates a non-blocking push found no space
	ErrBufferFull = errors.New("buffer is full")

	// ErrBufferEmpty indicates a non-blocking pop found nothing
	ErrBufferEmpty = errors.New("buffer is empty")
)

// BoundedQueueConfig defines configuration for a bounded queue
type BoundedQueueConfig struct {
	// Capacity is the maximum number of buffered items
	Capacity int

	// HighWatermark triggers OnHigh when the length reaches it (0 disables)
	HighWatermark int

	// LowWatermark triggers OnLow when the length falls to it after a high signal
	LowWatermark int

	// OnHigh is called with the current length when the high watermark is reached
	OnHigh func(length int)

	// OnLow is called with the current length when the buffer has drained to the low watermark
	OnLow func(length int)
}

// DefaultBoundedQueueConfig returns default configuration
func DefaultBoundedQueueConfig() *BoundedQueueConfig {
	return &BoundedQueueConfig{
		Capacity:      64,
		HighWatermark: 48,
		LowWatermark:  16,
	}
}

// BoundedQueue is a bounded FIFO safe for multiple producers and consumers
type BoundedQueue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	items    []T
	capacity int
	closed   bool

	high, low   int
	aboveHigh   bool
	onHigh      func(int)
	onLow       func(int)
	highSignals int64
	lowSignals  int64
}

// NewBoundedQueue creates a bounded queue
func NewBoundedQueue[T any](config *BoundedQueueConfig) (*BoundedQueue[T], error) {
	if config == nil {
		config = DefaultBoundedQueueConfig()
	}

	if config.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", types.ErrInvalidConfig, config.Capacity)
	}
	if config.HighWatermark < 0 || config.HighWatermark > config.Capacity {
		return nil, fmt.Errorf("%w: high watermark %d out of range [0, %d]",
			types.ErrInvalidConfig, config.HighWatermark, config.Capacity)
	}
	if config.HighWatermark > 0 && (config.LowWatermark < 0 || config.LowWatermark >= config.HighWatermark) {
		return nil, fmt.Errorf("%w: low watermark %d must be in [0, %d)",
			types.ErrInvalidConfig, config.LowWatermark, config.HighWatermark)
	}

	q := &BoundedQueue[T]{
		items:    make([]T, 0, config.Capacity),
		capacity: config.Capacity,
		high:     config.HighWatermark,
		low:      config.LowWatermark,
		onHigh:   config.OnHigh,
		onLow:    config.OnLow,
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q, nil
}

// Push appends v, blocking while the queue is full.
// It fails with ErrBufferClosed after Close, or with ctx.Err() if ctx ends while waiting.
func (q *BoundedQueue[T]) Push(ctx context.Context, v T) error {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.notFull.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	for len(q.items) >= q.capacity && !q.closed && ctx.Err() == nil {
		q.notFull.Wait()
	}
	if q.closed {
		q.mu.Unlock()
		return ErrBufferClosed
	}
	if len(q.items) >= q.capacity {
		q.mu.Unlock()
		return ctx.Err()
	}

	signal := q.appendLocked(v)
	q.mu.Unlock()

	q.notEmpty.Signal()
	signal()
	return nil
}

// TryPush appends v without blocking
func (q *BoundedQueue[T]) TryPush(v T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrBufferClosed
	}
	if len(q.items) >= q.capacity {
		q.mu.Unlock()
		return ErrBufferFull
	}

	signal := q.appendLocked(v)
	q.mu.Unlock()

	q.notEmpty.Signal()
	signal()
	return nil
}

// Pop removes the oldest item, blocking while the queue is empty.
// After Close, remaining items are still returned; then ErrBufferClosed.
func (q *BoundedQueue[T]) Pop(ctx context.Context) (T, error) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.notEmpty.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	var zero T

	q.mu.Lock()
	for len(q.items) == 0 && !q.closed && ctx.Err() == nil {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return zero, ErrBufferClosed
		}
		return zero, ctx.Err()
	}

	v, signal := q.removeLocked()
	q.mu.Unlock()

	q.notFull.Signal()
	signal()
	return v, nil
}

// TryPop removes the oldest item without blocking
func (q *BoundedQueue[T]) TryPop() (T, error) {
	var zero T

	q.mu.Lock()
	if len(q.items) == 0 {
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return zero, ErrBufferClosed
		}
		return zero, ErrBufferEmpty
	}

	v, signal := q.removeLocked()
	q.mu.Unlock()

	q.notFull.Signal()
	signal()
	return v, nil
}

// Close rejects further pushes and wakes every waiter. It is safe to call more than once.
func (q *BoundedQueue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

// Len returns the number of buffered items
func (q *BoundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cap returns the capacity
func (q *BoundedQueue[T]) Cap() int {
	return q.capacity
}

// Stats returns a snapshot of queue statistics
func (q *BoundedQueue[T]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Length:      len(q.items),
		Capacity:    q.capacity,
		AboveHigh:   q.aboveHigh,
		HighSignals: q.highSignals,
		LowSignals:  q.lowSignals,
		Closed:      q.closed,
	}
}

// Stats defines bounded queue statistics
type Stats struct {
	Length      int
	Capacity    int
	AboveHigh   bool
	HighSignals int64
	LowSignals  int64
	Closed      bool
}

// appendLocked adds v and returns the watermark callback to run after unlocking
func (q *BoundedQueue[T]) appendLocked(v T) func() {
	q.items = append(q.items, v)
	n := len(q.items)

	if q.high > 0 && !q.aboveHigh && n >= q.high {
		q.aboveHigh = true
		q.highSignals++
		if q.onHigh != nil {
			return func() { q.onHigh(n) }
		}
	}
	return func() {}
}

// removeLocked pops the head and returns the watermark callback to run after unlocking
func (q *BoundedQueue[T]) removeLocked() (T, func()) {
	var zero T
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	n := len(q.items)

	if q.aboveHigh && n <= q.low {
		q.aboveHigh = false
		q.lowSignals++
		if q.onLow != nil {
			return v, func() { q.onLow(n) }
		}
	}
	return v, func() {}
}
