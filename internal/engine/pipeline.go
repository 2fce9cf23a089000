package engine

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	pcontext "github.com/funkey7dan/newsroom/pkg/context"
	"github.com/funkey7dan/newsroom/pkg/logger"
	"github.com/funkey7dan/newsroom/pkg/queue"
	"github.com/funkey7dan/newsroom/pkg/types"
)

// Pipeline owns every queue and stage of one run. It is built once from a
// PipelineConfig and run once.
type Pipeline struct {
	cfg *types.PipelineConfig

	logger   logger.Logger
	output   io.Writer
	delay    time.Duration
	seed     uint64
	colorize bool

	producers  []*Producer
	dispatcher *Dispatcher
	editors    []*Editor
	screen     *ScreenManager
	screenQ    *queue.Bounded[types.Item]
	categoryQ  map[types.Category]*queue.Unbounded[types.Item]

	stats *statsRecorder
	ran   atomic.Bool
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithOutput sets where the screen prints. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		p.output = w
	}
}

// WithEditorDelay sets the per-item editor processing delay
func WithEditorDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		p.delay = d
	}
}

// WithSeed makes category choices reproducible. Zero means random.
func WithSeed(seed uint64) Option {
	return func(p *Pipeline) {
		p.seed = seed
	}
}

// WithLogger sets the logger used by every stage
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		p.logger = log
	}
}

// WithColor colorizes the category keyword in printed lines
func WithColor(enabled bool) Option {
	return func(p *Pipeline) {
		p.colorize = enabled
	}
}

// New builds every queue and stage for cfg. Producer queues are created and
// handed to the dispatcher here, before any producer starts.
func New(cfg *types.PipelineConfig, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		cfg:    cfg,
		logger: logger.Discard(),
		output: os.Stdout,
		delay:  DefaultEditorDelay,
		stats:  newStatsRecorder(),
	}
	for _, opt := range opts {
		opt(p)
	}

	screenQ, err := queue.NewBounded[types.Item](cfg.ScreenQueueSize)
	if err != nil {
		return nil, fmt.Errorf("screen queue: %w", err)
	}
	p.screenQ = screenQ

	// One slot is enough: signals coalesce and the dispatcher rescans
	// every live queue after each wakeup.
	wake := make(chan struct{}, 1)

	sources := make([]source, 0, len(cfg.Producers))
	for _, spec := range cfg.Producers {
		q, err := queue.NewBounded[types.Item](spec.QueueSize, queue.WithNotify(wake))
		if err != nil {
			return nil, fmt.Errorf("producer %d queue: %w", spec.ID, err)
		}
		p.producers = append(p.producers, newProducer(spec, q, p.newRand(spec.ID), p.logger, p.stats))
		sources = append(sources, source{id: spec.ID, q: q})
	}

	p.categoryQ = make(map[types.Category]*queue.Unbounded[types.Item], len(types.Categories))
	for _, category := range types.Categories {
		in := queue.NewUnbounded[types.Item]()
		p.categoryQ[category] = in
		p.editors = append(p.editors, newEditor(category, in, screenQ, p.delay, p.logger, p.stats))
	}

	p.dispatcher = newDispatcher(sources, p.categoryQ, wake, p.logger, p.stats)
	p.screen = newScreenManager(screenQ, p.output, len(p.editors), p.colorize, p.logger, p.stats)

	return p, nil
}

func (p *Pipeline) newRand(producerID int) *rand.Rand {
	if p.seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(p.seed, uint64(producerID)))
}

// Run starts every stage and blocks until the screen manager has printed
// the terminal marker. It returns the first stage error, after which all
// other stages are unblocked through ctx cancellation.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.ran.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}

	ctx = pcontext.EnrichContext(ctx)
	log := logger.WithContext(ctx, p.logger)

	log.Info("Pipeline starting",
		logger.WithField("producers", len(p.producers)),
		logger.WithField("items", p.cfg.TotalItems()),
		logger.WithField("screen_queue", p.cfg.ScreenQueueSize))

	sg, gctx := NewSafeGroup(ctx, log)

	for _, st := range p.stages() {
		sg.Go(st.Name(), func() error {
			return st.Run(pcontext.WithStage(gctx, st.Name()))
		})
	}

	if err := sg.Wait(); err != nil {
		log.Error("Pipeline failed", logger.WithField("error", err))
		return err
	}

	s := p.stats.snapshot()
	log.Success("Pipeline drained",
		logger.WithField("printed", s.Printed),
		logger.WithField("retired", s.Retired))
	return nil
}

// Stats returns a snapshot of the run counters
func (p *Pipeline) Stats() Stats {
	return p.stats.snapshot()
}

// Producers returns the producer stages in configuration order
func (p *Pipeline) Producers() []*Producer {
	return p.producers
}
