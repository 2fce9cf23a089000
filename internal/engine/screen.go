package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/funkey7dan/newsroom/pkg/logger"
	"github.com/funkey7dan/newsroom/pkg/queue"
	"github.com/funkey7dan/newsroom/pkg/types"
)

var categoryColors = map[types.Category]*color.Color{
	types.CategorySports:  color.New(color.FgGreen, color.Bold),
	types.CategoryNews:    color.New(color.FgCyan, color.Bold),
	types.CategoryWeather: color.New(color.FgYellow, color.Bold),
}

// ScreenManager prints the screen queue and detects completion
type ScreenManager struct {
	in       *queue.Bounded[types.Item]
	out      io.Writer
	editors  int
	colorize bool
	logger   logger.Logger
	stats    *statsRecorder
}

func newScreenManager(
	in *queue.Bounded[types.Item],
	out io.Writer,
	editors int,
	colorize bool,
	log logger.Logger,
	stats *statsRecorder,
) *ScreenManager {
	return &ScreenManager{
		in:       in,
		out:      out,
		editors:  editors,
		colorize: colorize,
		logger:   log.WithTarget("screen"),
		stats:    stats,
	}
}

// Run prints every regular item and returns after printing the terminal
// marker, once one sentinel per editor has arrived.
func (sm *ScreenManager) Run(ctx context.Context) error {
	seen := 0
	for seen < sm.editors {
		item, err := sm.in.Remove(ctx)
		if err != nil {
			return fmt.Errorf("screen: %w", err)
		}

		if item.IsSentinel() {
			seen++
			sm.stats.update(func(s *Stats) { s.ScreenSentinels++ })
			sm.logger.Debug("Editor finished", logger.WithField("remaining", sm.editors-seen))
			continue
		}

		if _, err := fmt.Fprintln(sm.out, sm.format(item)); err != nil {
			return fmt.Errorf("screen: failed to write item: %w", err)
		}
		sm.stats.update(func(s *Stats) { s.Printed++ })
	}

	if _, err := fmt.Fprintln(sm.out, types.DoneMarker); err != nil {
		return fmt.Errorf("screen: failed to write terminal marker: %w", err)
	}
	sm.stats.update(func(s *Stats) { s.DoneMarkers++ })
	return nil
}

func (sm *ScreenManager) format(item types.Item) string {
	c, ok := categoryColors[item.Category]
	if !sm.colorize || !ok {
		return item.Payload
	}
	return fmt.Sprintf("Producer %d %s %d", item.Producer, c.Sprint(item.Category), item.Seq)
}
