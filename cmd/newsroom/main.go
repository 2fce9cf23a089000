// Command newsroom runs the news agency pipeline described by a config file
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/funkey7dan/newsroom/pkg/cli"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cfg := cli.NewConfig()
	cfg.Version = version

	c := cli.NewCLI(cfg)
	if err := c.ExecuteContext(ctx, os.Args[1:]); err != nil {
		c.PrintError(err)
		stop()
		os.Exit(-1)
	}
	stop()
}
