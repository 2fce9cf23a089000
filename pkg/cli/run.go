package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/funkey7dan/newsroom/internal/engine"
	"github.com/funkey7dan/newsroom/pkg/config"
	"github.com/funkey7dan/newsroom/pkg/logger"
	"github.com/funkey7dan/newsroom/pkg/types"
	"github.com/spf13/cobra"
)

func (c *CLI) runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig(args[0])
	if err != nil {
		return err
	}
	return c.runOnce(cmd.Context(), cfg)
}

func (c *CLI) loadConfig(path string) (*types.PipelineConfig, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Ignored > 0 {
		c.logger.Warn("Ignoring incomplete producer entry at end of config",
			logger.WithField("path", path),
			logger.WithField("values", cfg.Ignored))
	}
	return cfg, nil
}

// runOnce builds and runs one pipeline to completion
func (c *CLI) runOnce(ctx context.Context, cfg *types.PipelineConfig) error {
	opts := append(c.config.pipelineOptions(),
		engine.WithOutput(c.output),
		engine.WithLogger(c.logger),
	)

	p, err := engine.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	start := time.Now()
	if err := p.Run(ctx); err != nil {
		c.notifier.NotifyRunFailed(err)
		return fmt.Errorf("pipeline failed: %w", err)
	}

	c.notifier.NotifyRunComplete(p.Stats().Printed, time.Since(start))
	return nil
}
