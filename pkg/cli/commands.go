package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>",
		Short: "Check a config file without running the pipeline",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(c.output, "%s %s %d producers, %d items, screen queue %d\n",
				"📰", color.GreenString("[newsroom]"),
				len(cfg.Producers), cfg.TotalItems(), cfg.ScreenQueueSize)
			for _, p := range cfg.Producers {
				fmt.Fprintf(c.output, "  producer %d: %d items, queue %d\n", p.ID, p.Items, p.QueueSize)
			}
			return nil
		},
	}
}

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  exactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.output, "📰 newsroom v%s\n", c.config.Version)
		},
	}
}
