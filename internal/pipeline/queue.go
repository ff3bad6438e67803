// ABOUTME: Bounded single-producer single-consumer queue
// ABOUTME: Lock-free ring with blocking and non-blocking ends plus close signalling
package pipeline

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when sending on a closed queue
var ErrClosed = errors.New("queue closed")

// Status is the outcome of a non-blocking receive
type Status int

const (
	// Item means a value was returned
	Item Status = iota
	// Empty means nothing is queued but the producer may still send
	Empty
	// Closed means the queue was closed and every item has been drained
	Closed
)

func (s Status) String() string {
	switch s {
	case Item:
		return "item"
	case Empty:
		return "empty"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Queue is a fixed-capacity FIFO for exactly one producer and one consumer.
// TrySend and TryReceive never block or allocate, so either end may be driven
// from a real-time audio callback.
type Queue[T any] struct {
	buf []T

	// head is only advanced by the consumer, tail only by the producer
	head atomic.Uint64
	tail atomic.Uint64

	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}

	notFull  chan struct{}
	notEmpty chan struct{}
}

// NewQueue creates a queue holding at most capacity items
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		panic("pipeline: queue capacity must be positive")
	}
	return &Queue[T]{
		buf:      make([]T, capacity),
		done:     make(chan struct{}),
		notFull:  make(chan struct{}, 1),
		notEmpty: make(chan struct{}, 1),
	}
}

// Send appends v, blocking while the queue is full
func (q *Queue[T]) Send(v T) error {
	for {
		if q.closed.Load() {
			return ErrClosed
		}
		if q.TrySend(v) {
			return nil
		}
		select {
		case <-q.notFull:
		case <-q.done:
		}
	}
}

// TrySend appends v if there is room. It reports false when the queue is
// full or closed.
func (q *Queue[T]) TrySend(v T) bool {
	if q.closed.Load() {
		return false
	}
	tail := q.tail.Load()
	if tail-q.head.Load() >= uint64(len(q.buf)) {
		return false
	}
	q.buf[tail%uint64(len(q.buf))] = v
	q.tail.Store(tail + 1)
	wake(q.notEmpty)
	return true
}

// Receive blocks until an item is available. ok is false once the queue is
// closed and drained.
func (q *Queue[T]) Receive() (v T, ok bool) {
	for {
		v, status := q.TryReceive()
		switch status {
		case Item:
			return v, true
		case Closed:
			return v, false
		}
		select {
		case <-q.notEmpty:
		case <-q.done:
		}
	}
}

// TryReceive takes the oldest item without blocking
func (q *Queue[T]) TryReceive() (T, Status) {
	var zero T
	closed := q.closed.Load()

	head := q.head.Load()
	if head == q.tail.Load() {
		if closed {
			return zero, Closed
		}
		return zero, Empty
	}

	slot := head % uint64(len(q.buf))
	v := q.buf[slot]
	q.buf[slot] = zero
	q.head.Store(head + 1)
	wake(q.notFull)
	return v, Item
}

// Close marks the end of the stream. Queued items remain receivable.
// Close may be called more than once.
func (q *Queue[T]) Close() {
	q.closeOnce.Do(func() {
		q.closed.Store(true)
		close(q.done)
	})
}

// Done is closed when Close is first called
func (q *Queue[T]) Done() <-chan struct{} {
	return q.done
}

// Len returns the number of queued items
func (q *Queue[T]) Len() int {
	head := q.head.Load()
	n := int(q.tail.Load() - head)
	return min(n, len(q.buf))
}

// Cap returns the fixed capacity
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}

func wake(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
