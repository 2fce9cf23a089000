package queue

import (
	"context"
	"sync"
)

// Bounded is a fixed-capacity FIFO. Insert blocks while the queue is full
// and Remove blocks while it is empty.
type Bounded[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	// ring buffer; len(items) is the capacity
	items []T
	head  int
	size  int

	opts options
}

// NewBounded creates a bounded queue holding at most capacity items
func NewBounded[T any](capacity int, opts ...Option) (*Bounded[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	q := &Bounded[T]{
		items: make([]T, capacity),
		opts:  buildOptions(opts),
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q, nil
}

// Insert appends item, waiting for a free slot if the queue is full.
// It only fails when ctx is done before a slot frees up.
func (q *Bounded[T]) Insert(ctx context.Context, item T) error {
	q.mu.Lock()
	for q.size == len(q.items) {
		if err := wait(ctx, &q.mu, q.notFull); err != nil {
			// hand a possibly consumed wakeup to the next inserter
			if q.size < len(q.items) {
				q.notFull.Signal()
			}
			q.mu.Unlock()
			return err
		}
	}

	q.items[(q.head+q.size)%len(q.items)] = item
	q.size++
	q.notEmpty.Signal()
	q.mu.Unlock()

	q.opts.signal()
	return nil
}

// Remove takes the oldest item, waiting while the queue is empty.
func (q *Bounded[T]) Remove(ctx context.Context) (T, error) {
	q.mu.Lock()
	for q.size == 0 {
		if err := wait(ctx, &q.mu, q.notEmpty); err != nil {
			if q.size > 0 {
				q.notEmpty.Signal()
			}
			q.mu.Unlock()
			var zero T
			return zero, err
		}
	}

	item := q.pop()
	q.notFull.Signal()
	q.mu.Unlock()
	return item, nil
}

// TryRemove takes the oldest item without blocking. ok is false when the
// queue is empty.
func (q *Bounded[T]) TryRemove() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == 0 {
		return item, false
	}
	item = q.pop()
	q.notFull.Signal()
	return item, true
}

// Len returns the number of queued items
func (q *Bounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the queue capacity
func (q *Bounded[T]) Cap() int {
	return len(q.items)
}

// pop requires q.mu held and q.size > 0
func (q *Bounded[T]) pop() T {
	var zero T
	item := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return item
}
