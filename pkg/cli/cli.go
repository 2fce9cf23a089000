// Package cli provides the command-line interface for newsroom
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/funkey7dan/newsroom/pkg/logger"
	"github.com/funkey7dan/newsroom/pkg/notifier"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrUsage indicates the command line itself is wrong
var ErrUsage = errors.New("usage error")

// CLI encapsulates the command-line interface and makes it testable
type CLI struct {
	config   *Config
	rootCmd  *cobra.Command
	viper    *viper.Viper
	logger   logger.Logger
	notifier *notifier.RunNotifier
	output   io.Writer
	errorOut io.Writer
}

// NewCLI creates a new CLI instance with the given configuration
func NewCLI(config *Config) *CLI {
	if config == nil {
		config = NewConfig()
	}

	cli := &CLI{
		config:   config,
		viper:    viper.New(),
		logger:   logger.Discard(),
		output:   os.Stdout,
		errorOut: os.Stderr,
	}

	cli.setupCommands()
	return cli
}

// NewCLIWithOutput creates a CLI with custom output writers (for testing)
func NewCLIWithOutput(config *Config, output, errorOut io.Writer) *CLI {
	cli := NewCLI(config)
	cli.output = output
	cli.errorOut = errorOut
	cli.rootCmd.SetOut(output)
	cli.rootCmd.SetErr(errorOut)
	return cli
}

// Execute runs the CLI with the given arguments
func (c *CLI) Execute(args []string) error {
	return c.ExecuteContext(context.Background(), args)
}

// ExecuteContext runs the CLI with context support
func (c *CLI) ExecuteContext(ctx context.Context, args []string) error {
	// cobra falls back to os.Args when given nil
	if args == nil {
		args = []string{}
	}
	c.rootCmd.SetArgs(args)
	return c.rootCmd.ExecuteContext(ctx)
}

// PrintError reports a fatal error on the error output
func (c *CLI) PrintError(err error) {
	fmt.Fprintf(c.errorOut, "%s %s %v\n", "📰", color.RedString("[newsroom]"), err)
}

func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:   "newsroom <config>",
		Short: "Simulate a news agency pipeline",
		Long: `📰 newsroom - producers, a dispatcher, editors and a screen

Each producer writes categorized stories into its own bounded queue. The
dispatcher routes them to one editor per category, and the editors hand
them to the screen, which prints them and finishes with DONE.

The config file lists producer triples (id, item count, queue size), one
value per line, followed by the screen queue size. Files ending in .yaml,
.yml or .json are read as structured documents instead.`,

		Args:              exactArgs(1),
		PersistentPreRunE: c.initializeConfig,
		RunE:              c.runPipeline,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	c.setupFlags()

	c.rootCmd.AddCommand(c.newWatchCmd())
	c.rootCmd.AddCommand(c.newValidateCmd())
	c.rootCmd.AddCommand(c.newVersionCmd())
}

func (c *CLI) setupFlags() {
	flags := c.rootCmd.PersistentFlags()

	flags.StringVarP(&c.config.Verbosity, "verbosity", "v", c.config.Verbosity, "log level (debug, info, warn, error)")
	flags.StringVar(&c.config.LogFile, "log-file", c.config.LogFile, "also write logs to this file")
	flags.StringVar(&c.config.Settings, "settings", c.config.Settings, "settings file providing flag defaults (yaml, json or toml)")
	flags.DurationVar(&c.config.EditorDelay, "editor-delay", c.config.EditorDelay, "simulated editing time per item")
	flags.Uint64Var(&c.config.Seed, "seed", c.config.Seed, "seed for category choices (0 picks a random seed)")
	flags.BoolVar(&c.config.Notify, "notify", c.config.Notify, "send a desktop notification when a run ends")
	flags.BoolVar(&c.config.Sound, "sound", c.config.Sound, "beep along with notifications")
	flags.BoolVar(&c.config.Color, "color", c.config.Color, "colorize categories in printed lines")
}

// initializeConfig layers settings as flags > environment > settings file > defaults
func (c *CLI) initializeConfig(cmd *cobra.Command, args []string) error {
	v := c.viper
	v.SetEnvPrefix("NEWSROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if settings := v.GetString("settings"); settings != "" {
		v.SetConfigFile(settings)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	c.config.Verbosity = v.GetString("verbosity")
	c.config.LogFile = v.GetString("log-file")
	c.config.EditorDelay = v.GetDuration("editor-delay")
	c.config.Seed = v.GetUint64("seed")
	c.config.Notify = v.GetBool("notify")
	c.config.Sound = v.GetBool("sound")
	c.config.Color = v.GetBool("color")

	c.logger = c.newLogger()
	c.notifier = notifier.New(notifier.Config{
		Enabled: c.config.Notify,
		Sound:   c.config.Sound,
	}, c.logger.WithTarget("notifier"))

	if used := v.ConfigFileUsed(); used != "" {
		c.logger.Debug("Using settings file", logger.WithField("file", used))
	}
	return nil
}

func (c *CLI) newLogger() logger.Logger {
	if c.errorOut == os.Stderr {
		return logger.CreateLogger(c.config.LogFile, c.config.Verbosity)
	}
	return logger.CreateLoggerWithOutput(c.config.Verbosity, c.errorOut)
}

// exactArgs is cobra.ExactArgs reporting ErrUsage
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s expects exactly %d argument(s), got %d", ErrUsage, cmd.Name(), n, len(args))
		}
		return nil
	}
}
