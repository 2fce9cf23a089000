package engine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/funkey7dan/newsroom/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// SafeGroup wraps errgroup.Group with panic recovery so one failing stage
// is reported as an error instead of crashing the process.
type SafeGroup struct {
	group  *errgroup.Group
	logger logger.Logger
}

// NewSafeGroup creates a new SafeGroup. The returned context is cancelled
// when the first stage returns an error.
func NewSafeGroup(ctx context.Context, log logger.Logger) (*SafeGroup, context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	return &SafeGroup{
		group:  g,
		logger: log,
	}, ctx
}

// Go runs fn in a new goroutine. A panic is logged with its stack trace
// and returned as an error.
func (sg *SafeGroup) Go(name string, fn func() error) {
	sg.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				sg.logger.Error("Stage panic recovered",
					logger.WithField("stage", name),
					logger.WithField("panic", r),
					logger.WithField("stack_trace", string(debug.Stack())))
				err = fmt.Errorf("%s: goroutine panic: %v", name, r)
			}
		}()

		return fn()
	})
}

// Wait blocks until all goroutines have returned and reports the first error
func (sg *SafeGroup) Wait() error {
	return sg.group.Wait()
}
