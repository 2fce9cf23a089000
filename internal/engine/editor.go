package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/funkey7dan/newsroom/pkg/logger"
	"github.com/funkey7dan/newsroom/pkg/queue"
	"github.com/funkey7dan/newsroom/pkg/types"
)

// DefaultEditorDelay is the simulated processing time per item
const DefaultEditorDelay = 100 * time.Millisecond

// Editor processes one category's queue and forwards to the screen queue
type Editor struct {
	category types.Category
	in       *queue.Unbounded[types.Item]
	out      *queue.Bounded[types.Item]
	delay    time.Duration
	logger   logger.Logger
	stats    *statsRecorder
}

func newEditor(
	category types.Category,
	in *queue.Unbounded[types.Item],
	out *queue.Bounded[types.Item],
	delay time.Duration,
	log logger.Logger,
	stats *statsRecorder,
) *Editor {
	return &Editor{
		category: category,
		in:       in,
		out:      out,
		delay:    delay,
		logger:   log.WithTarget("editor/" + category.String()),
		stats:    stats,
	}
}

// Category returns the category this editor is bound to
func (e *Editor) Category() types.Category {
	return e.category
}

// Run forwards items until it sees the sentinel, which it forwards once
func (e *Editor) Run(ctx context.Context) error {
	for {
		item, err := e.in.Remove(ctx)
		if err != nil {
			return fmt.Errorf("editor %s: %w", e.category, err)
		}

		if item.IsSentinel() {
			if err := e.out.Insert(ctx, item); err != nil {
				return fmt.Errorf("editor %s: %w", e.category, err)
			}
			e.stats.update(func(s *Stats) { s.EditorSentinels[e.category]++ })
			e.logger.Debug("Editor finished")
			return nil
		}

		if err := e.edit(ctx); err != nil {
			return fmt.Errorf("editor %s: %w", e.category, err)
		}

		if err := e.out.Insert(ctx, item); err != nil {
			return fmt.Errorf("editor %s: %w", e.category, err)
		}
		e.stats.update(func(s *Stats) { s.Edited[e.category]++ })
	}
}

// edit simulates the processing delay
func (e *Editor) edit(ctx context.Context) error {
	if e.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(e.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
