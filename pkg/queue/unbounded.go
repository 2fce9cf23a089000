package queue

import (
	"context"
	"sync"
)

// Unbounded is a FIFO without a capacity limit. Insert never blocks;
// Remove blocks while the queue is empty.
type Unbounded[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	items    []T

	opts options
}

// NewUnbounded creates an empty unbounded queue
func NewUnbounded[T any](opts ...Option) *Unbounded[T] {
	q := &Unbounded[T]{
		opts: buildOptions(opts),
	}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Insert appends item and wakes one waiting remover
func (q *Unbounded[T]) Insert(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.notEmpty.Signal()
	q.mu.Unlock()

	q.opts.signal()
}

// Remove takes the oldest item, waiting while the queue is empty.
func (q *Unbounded[T]) Remove(ctx context.Context) (T, error) {
	q.mu.Lock()
	for len(q.items) == 0 {
		if err := wait(ctx, &q.mu, q.notEmpty); err != nil {
			if len(q.items) > 0 {
				q.notEmpty.Signal()
			}
			q.mu.Unlock()
			var zero T
			return zero, err
		}
	}

	item := q.pop()
	q.mu.Unlock()
	return item, nil
}

// TryRemove takes the oldest item without blocking
func (q *Unbounded[T]) TryRemove() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return item, false
	}
	return q.pop(), true
}

// Len returns the number of queued items
func (q *Unbounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Unbounded[T]) pop() T {
	var zero T
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		// release the backing array once drained
		q.items = nil
	}
	return item
}
