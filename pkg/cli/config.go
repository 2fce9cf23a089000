package cli

import (
	"time"

	"github.com/funkey7dan/newsroom/internal/engine"
)

// Config holds all CLI configuration, making it testable and eliminating globals
type Config struct {
	Verbosity   string
	LogFile     string
	Settings    string
	EditorDelay time.Duration
	Seed        uint64
	Notify      bool
	Sound       bool
	Color       bool
	Version     string
}

// NewConfig creates a new CLI configuration with defaults
func NewConfig() *Config {
	return &Config{
		Verbosity:   "warn",
		EditorDelay: engine.DefaultEditorDelay,
		Version:     "dev",
	}
}

// pipelineOptions translates the CLI settings into engine options
func (c *Config) pipelineOptions() []engine.Option {
	return []engine.Option{
		engine.WithEditorDelay(c.EditorDelay),
		engine.WithSeed(c.Seed),
		engine.WithColor(c.Color),
	}
}
