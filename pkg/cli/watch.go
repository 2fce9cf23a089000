package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/funkey7dan/newsroom/pkg/config"
	"github.com/funkey7dan/newsroom/pkg/logger"
	"github.com/funkey7dan/newsroom/pkg/types"
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <config>",
		Short: "Run the pipeline and rerun it whenever the config changes",
		Long: `Run the pipeline once, then keep watching the config file. Every time it
is rewritten the pipeline runs again with the new producers. A config that
fails to load is reported and skipped; the watcher waits for the next change.

Stop with Ctrl-C.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runWatch(ctx context.Context, path string) error {
	cfg, err := c.loadConfig(path)
	if err != nil {
		return err
	}

	rm := config.NewReloadManager(path, c.logger.WithTarget("watch"))

	// Holds at most one pending config; a newer reload replaces it.
	pending := make(chan *types.PipelineConfig, 1)
	rm.AddCallback(func(next *types.PipelineConfig, err error) {
		if err != nil {
			c.logger.Error("Config reload failed, waiting for the next change",
				logger.WithField("error", err))
			return
		}
		for {
			select {
			case pending <- next:
				return
			default:
			}
			select {
			case <-pending:
			default:
			}
		}
	})

	if err := rm.StartWatching(); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}
	defer rm.StopWatching()

	for {
		if err := c.runOnce(ctx, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if !errors.Is(err, context.DeadlineExceeded) {
				c.logger.Error("Run failed", logger.WithField("error", err))
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case cfg = <-pending:
			c.logger.Info("Config changed, running again",
				logger.WithField("producers", len(cfg.Producers)))
		}
	}
}
