// Package queue provides blocking FIFO queues used to connect pipeline stages
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrInvalidCapacity is returned when a bounded queue is created with capacity < 1
var ErrInvalidCapacity = errors.New("queue capacity must be at least 1")

// Option configures a queue at construction time
type Option func(*options)

type options struct {
	notify chan<- struct{}
}

// WithNotify registers a channel that receives a non-blocking signal after
// every successful insert. A single consumer draining many queues can share
// one buffered channel across all of them and sleep on it when every queue
// is empty. Signals coalesce; a buffer of one is enough.
func WithNotify(ch chan<- struct{}) Option {
	return func(o *options) {
		o.notify = ch
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) signal() {
	if o.notify == nil {
		return
	}
	select {
	case o.notify <- struct{}{}:
	default:
	}
}

// wait blocks on cond until it is signaled or ctx is done. mu must be held
// by the caller and is held again when wait returns.
func wait(ctx context.Context, mu *sync.Mutex, cond *sync.Cond) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() {
		mu.Lock()
		cond.Broadcast()
		mu.Unlock()
	})
	cond.Wait()
	stop()
	return ctx.Err()
}
