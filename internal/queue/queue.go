// Package queue provides the bounded FIFO used to pass load requests and decoded
// results between the gallery's update goroutine and its loader goroutine.
package queue

import (
	"context"
	"sync/atomic"
)

// DefaultCapacity is the reference queue size.
const DefaultCapacity = 16

// Stats counts traffic through a queue.
type Stats struct {
	Pushed  uint64
	Dropped uint64 // TryPush calls rejected because the queue was full
	Popped  uint64
}

// Queue is a fixed-capacity FIFO safe for any number of producers and consumers.
type Queue[T any] struct {
	ch      chan T
	pushed  atomic.Uint64
	dropped atomic.Uint64
	popped  atomic.Uint64
}

// New creates a queue. Capacities below 1 are raised to 1.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// TryPush enqueues v without blocking. It returns false, and counts a drop, when the queue is full.
func (q *Queue[T]) TryPush(v T) bool {
	select {
	case q.ch <- v:
		q.pushed.Add(1)
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Push enqueues v, waiting for space until ctx is done.
func (q *Queue[T]) Push(ctx context.Context, v T) error {
	select {
	case q.ch <- v:
		q.pushed.Add(1)
		return nil
	default:
	}
	select {
	case q.ch <- v:
		q.pushed.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPop dequeues the oldest item without blocking.
func (q *Queue[T]) TryPop() (T, bool) {
	select {
	case v := <-q.ch:
		q.popped.Add(1)
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Pop dequeues the oldest item, waiting until one is available or ctx is done.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	select {
	case v := <-q.ch:
		q.popped.Add(1)
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Drain discards everything currently queued and returns how many items were removed.
func (q *Queue[T]) Drain() int {
	n := 0
	for {
		if _, ok := q.TryPop(); !ok {
			return n
		}
		n++
	}
}

func (q *Queue[T]) Len() int { return len(q.ch) }
func (q *Queue[T]) Cap() int { return cap(q.ch) }

// Stats returns a snapshot of the queue counters.
func (q *Queue[T]) Stats() Stats {
	return Stats{
		Pushed:  q.pushed.Load(),
		Dropped: q.dropped.Load(),
		Popped:  q.popped.Load(),
	}
}
