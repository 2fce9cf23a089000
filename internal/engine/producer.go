package engine

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/funkey7dan/newsroom/pkg/logger"
	"github.com/funkey7dan/newsroom/pkg/queue"
	"github.com/funkey7dan/newsroom/pkg/types"
)

// Producer emits a fixed number of randomly categorized items into its own
// bounded queue and closes the stream with one sentinel.
type Producer struct {
	spec   types.ProducerSpec
	out    *queue.Bounded[types.Item]
	rng    *rand.Rand
	logger logger.Logger
	stats  *statsRecorder
}

func newProducer(spec types.ProducerSpec, out *queue.Bounded[types.Item], rng *rand.Rand, log logger.Logger, stats *statsRecorder) *Producer {
	return &Producer{
		spec:   spec,
		out:    out,
		rng:    rng,
		logger: log.WithTarget(fmt.Sprintf("producer/%d", spec.ID)),
		stats:  stats,
	}
}

// ID returns the configured producer id
func (p *Producer) ID() int {
	return p.spec.ID
}

// Queue returns the producer's output queue
func (p *Producer) Queue() *queue.Bounded[types.Item] {
	return p.out
}

// Run generates the configured items and then the sentinel
func (p *Producer) Run(ctx context.Context) error {
	counters := make(map[types.Category]int, len(types.Categories))

	for i := 0; i < p.spec.Items; i++ {
		category := types.Categories[p.rng.IntN(len(types.Categories))]
		item := types.NewItem(p.spec.ID, category, counters[category])
		counters[category]++

		if err := p.out.Insert(ctx, item); err != nil {
			return fmt.Errorf("producer %d: %w", p.spec.ID, err)
		}
		p.stats.update(func(s *Stats) { s.Produced[p.spec.ID]++ })
	}

	if err := p.out.Insert(ctx, types.Sentinel(p.spec.ID)); err != nil {
		return fmt.Errorf("producer %d: %w", p.spec.ID, err)
	}
	p.stats.update(func(s *Stats) { s.ProducerSentinels[p.spec.ID]++ })

	p.logger.Debug("Producer finished", logger.WithField("items", p.spec.Items))
	return nil
}
