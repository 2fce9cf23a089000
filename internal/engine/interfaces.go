package engine

import (
	"context"
	"fmt"
)

// Stage is one concurrently running step of the pipeline. Run returns nil
// once the stage has handled its share of the shutdown protocol.
type Stage interface {
	Name() string
	Run(ctx context.Context) error
}

var (
	_ Stage = (*Producer)(nil)
	_ Stage = (*Dispatcher)(nil)
	_ Stage = (*Editor)(nil)
	_ Stage = (*ScreenManager)(nil)
)

// Name identifies the producer in logs and panics
func (p *Producer) Name() string {
	return fmt.Sprintf("producer/%d", p.ID())
}

// Name identifies the dispatcher in logs and panics
func (d *Dispatcher) Name() string {
	return "dispatcher"
}

// Name identifies the editor by its category
func (e *Editor) Name() string {
	return "editor/" + e.Category().String()
}

// Name identifies the screen manager in logs and panics
func (sm *ScreenManager) Name() string {
	return "screen"
}

// stages lists every stage consumers first, so downstream queues have a
// reader before anything is inserted upstream.
func (p *Pipeline) stages() []Stage {
	stages := make([]Stage, 0, len(p.producers)+len(p.editors)+2)
	stages = append(stages, p.screen)
	for _, e := range p.editors {
		stages = append(stages, e)
	}
	stages = append(stages, p.dispatcher)
	for _, pr := range p.producers {
		stages = append(stages, pr)
	}
	return stages
}
