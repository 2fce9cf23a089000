package engine

import (
	"context"
	"fmt"

	"github.com/funkey7dan/newsroom/pkg/logger"
	"github.com/funkey7dan/newsroom/pkg/queue"
	"github.com/funkey7dan/newsroom/pkg/types"
)

// source is one live producer queue, keyed by producer id
type source struct {
	id int
	q  *queue.Bounded[types.Item]
}

// Dispatcher fans producer output into the per-category queues.
// The live set is only ever touched from the goroutine running Run.
type Dispatcher struct {
	live     []source
	expected int
	routes   map[types.Category]*queue.Unbounded[types.Item]
	wake     <-chan struct{}
	logger   logger.Logger
	stats    *statsRecorder
}

// newDispatcher takes ownership of sources. wake must be the notify channel
// shared by every source queue.
func newDispatcher(
	sources []source,
	routes map[types.Category]*queue.Unbounded[types.Item],
	wake <-chan struct{},
	log logger.Logger,
	stats *statsRecorder,
) *Dispatcher {
	return &Dispatcher{
		live:     sources,
		expected: len(sources),
		routes:   routes,
		wake:     wake,
		logger:   log.WithTarget("dispatcher"),
		stats:    stats,
	}
}

// Run drains the live queues until every producer has sent its sentinel,
// then emits one sentinel into each category queue.
//
// Each pass makes one non-blocking removal attempt per live queue. A pass
// that finds every queue empty suspends on the shared wake channel until
// some producer inserts again.
func (d *Dispatcher) Run(ctx context.Context) error {
	retired := 0

	for retired < d.expected {
		progressed := false

		for i := 0; i < len(d.live); {
			item, ok := d.live[i].q.TryRemove()
			if !ok {
				i++
				continue
			}
			progressed = true

			done, err := d.route(item)
			if err != nil {
				return err
			}
			if !done {
				i++
				continue
			}

			d.logger.Debug("Producer retired", logger.WithField("producer", d.live[i].id))
			d.live = append(d.live[:i], d.live[i+1:]...)
			retired++
			d.stats.update(func(s *Stats) { s.Retired++ })
		}

		if !progressed && retired < d.expected {
			select {
			case <-d.wake:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	for _, category := range types.Categories {
		d.routes[category].Insert(types.Sentinel(0))
		d.stats.update(func(s *Stats) { s.CategorySentinels[category]++ })
	}

	d.logger.Debug("All producers retired", logger.WithField("producers", retired))
	return nil
}

// route forwards a regular item and reports whether item was a sentinel
func (d *Dispatcher) route(item types.Item) (bool, error) {
	category, sentinel, err := classify(item)
	if err != nil {
		return false, err
	}
	if sentinel {
		return true, nil
	}

	d.routes[category].Insert(item)
	d.stats.update(func(s *Stats) { s.Dispatched[category]++ })
	return false, nil
}

// classify checks the categories in priority order, then the sentinel
func classify(item types.Item) (category types.Category, sentinel bool, err error) {
	for _, c := range types.Categories {
		if item.Category == c {
			return c, false, nil
		}
	}
	if item.IsSentinel() {
		return types.CategoryUnknown, true, nil
	}
	return types.CategoryUnknown, false,
		fmt.Errorf("%w: %q from producer %d", ErrUnclassifiable, item.Payload, item.Producer)
}
