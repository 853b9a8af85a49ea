package worker

import (
	"sync"

	"github.com/jzx17/gotaskqueue/pkg/types"
)

// pendingQueue is an unbounded FIFO of work items with a single consumer.
// The manager state lives under the same mutex as the items, so a
// submission either lands before the shutdown flip or is rejected.
type pendingQueue[R any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond // queue became non-empty, or stop requested
	items    []*WorkItem[R]
	state    types.ManagerState
}

func newPendingQueue[R any]() *pendingQueue[R] {
	q := &pendingQueue[R]{state: types.StateRunning}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// push appends item to the tail and returns the new length.
// It fails with ErrSubmissionRejected once shutdown has begun.
func (q *pendingQueue[R]) push(item *WorkItem[R]) (int, error) {
	q.mu.Lock()
	if q.state != types.StateRunning {
		q.mu.Unlock()
		return 0, types.ErrSubmissionRejected
	}
	q.items = append(q.items, item)
	n := len(q.items)
	q.mu.Unlock()

	q.notEmpty.Signal()
	return n, nil
}

// next blocks until an item is available or stop is requested.
// It returns false as soon as stop is requested, leaving remaining items
// for the shutdown policy pass.
func (q *pendingQueue[R]) next() (*WorkItem[R], int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && q.state == types.StateRunning {
		q.notEmpty.Wait()
	}
	if q.state != types.StateRunning {
		return nil, len(q.items), false
	}

	item := q.popLocked()
	return item, len(q.items), true
}

// tryPop removes the head without blocking
func (q *pendingQueue[R]) tryPop() (*WorkItem[R], int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, 0, false
	}
	item := q.popLocked()
	return item, len(q.items), true
}

// drainAll removes and returns every queued item in FIFO order
func (q *pendingQueue[R]) drainAll() []*WorkItem[R] {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	return items
}

func (q *pendingQueue[R]) popLocked() *WorkItem[R] {
	item := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return item
}

// beginShutdown moves Running to ShuttingDown and wakes the consumer.
// It returns false if shutdown had already begun.
func (q *pendingQueue[R]) beginShutdown() (int, bool) {
	q.mu.Lock()
	if q.state != types.StateRunning {
		q.mu.Unlock()
		return 0, false
	}
	q.state = types.StateShuttingDown
	n := len(q.items)
	q.mu.Unlock()

	q.notEmpty.Broadcast()
	return n, true
}

// markStopped records that the consumer has exited
func (q *pendingQueue[R]) markStopped() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.state = types.StateStopped
}

func (q *pendingQueue[R]) State() types.ManagerState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

func (q *pendingQueue[R]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
