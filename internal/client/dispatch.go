package client

import (
	"context"
	"sync"
	"sync/atomic"
)

// dispatchQueue is an unbounded FIFO of callbacks. The read loop must never
// block on application code, so enqueue never waits.
type dispatchQueue struct {
	mu     sync.Mutex
	items  []func(context.Context)
	notify chan struct{}

	// busy is set while a callback runs; stopped closes when run returns.
	busy    atomic.Bool
	stopped chan struct{}
}

// newDispatchQueue creates a queue whose backing slice starts with room for
// capacity callbacks. It grows past that as needed.
func newDispatchQueue(capacity int) *dispatchQueue {
	return &dispatchQueue{
		items:   make([]func(context.Context), 0, capacity),
		notify:  make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

func (q *dispatchQueue) enqueue(fn func(context.Context)) {
	q.mu.Lock()
	q.items = append(q.items, fn)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *dispatchQueue) pop() func(context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}

	fn := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]

	return fn
}

// run executes callbacks in order until ctx ends.
func (q *dispatchQueue) run(ctx context.Context) {
	defer close(q.stopped)

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.notify:
			for fn := q.pop(); fn != nil; fn = q.pop() {
				// busy is raised before the ctx check so wait never misses a
				// callback that starts after cancellation.
				q.busy.Store(true)

				if ctx.Err() != nil {
					q.busy.Store(false)

					return
				}

				fn(ctx)
				q.busy.Store(false)
			}
		}
	}
}

// wait blocks until run returns. The ctx passed to run must already be
// cancelled. A callback still executing is not waited for: it may be the
// caller, and run returns as soon as it finishes.
func (q *dispatchQueue) wait() {
	if q.busy.Load() {
		return
	}

	<-q.stopped
}
