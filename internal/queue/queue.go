// Package queue provides the FIFO of pending work shared by download workers.
package queue

import "sync"

// Queue is a mutex-guarded FIFO. Take never blocks: an empty queue tells the
// worker it is done.
//
// Example:
//
//	q := queue.New(items)
//	for {
//	    item, ok := q.Take()
//	    if !ok {
//	        return
//	    }
//	    process(item)
//	}
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// New returns a queue holding items in order. The slice is copied.
func New[T any](items []T) *Queue[T] {
	q := &Queue[T]{items: make([]T, len(items))}
	copy(q.items, items)
	return q
}

// Take pops the front item. ok is false when the queue is empty.
func (q *Queue[T]) Take() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return item, false
	}

	item = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

// Len returns the number of pending items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
