package engine

import (
	"maps"
	"sync"

	"github.com/funkey7dan/newsroom/pkg/types"
)

// Stats is a snapshot of a pipeline run's counters
type Stats struct {
	// Produced counts regular items per producer id
	Produced map[int]int
	// ProducerSentinels counts sentinels inserted per producer id
	ProducerSentinels map[int]int
	// Dispatched counts regular items routed per category
	Dispatched map[types.Category]int
	// Retired is the number of producers the dispatcher retired
	Retired int
	// CategorySentinels counts sentinels the dispatcher emitted per category
	CategorySentinels map[types.Category]int
	// EditorSentinels counts sentinels each editor forwarded
	EditorSentinels map[types.Category]int
	// Edited counts regular items each editor forwarded
	Edited map[types.Category]int
	// Printed is the number of regular lines written by the screen
	Printed int
	// ScreenSentinels is the number of sentinels the screen consumed
	ScreenSentinels int
	// DoneMarkers is the number of terminal markers printed
	DoneMarkers int
}

// statsRecorder collects counters from every stage goroutine
type statsRecorder struct {
	mu sync.Mutex
	s  Stats
}

func newStatsRecorder() *statsRecorder {
	return &statsRecorder{
		s: Stats{
			Produced:          make(map[int]int),
			ProducerSentinels: make(map[int]int),
			Dispatched:        make(map[types.Category]int),
			CategorySentinels: make(map[types.Category]int),
			EditorSentinels:   make(map[types.Category]int),
			Edited:            make(map[types.Category]int),
		},
	}
}

func (r *statsRecorder) update(fn func(s *Stats)) {
	r.mu.Lock()
	fn(&r.s)
	r.mu.Unlock()
}

func (r *statsRecorder) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.s
	s.Produced = maps.Clone(r.s.Produced)
	s.ProducerSentinels = maps.Clone(r.s.ProducerSentinels)
	s.Dispatched = maps.Clone(r.s.Dispatched)
	s.CategorySentinels = maps.Clone(r.s.CategorySentinels)
	s.EditorSentinels = maps.Clone(r.s.EditorSentinels)
	s.Edited = maps.Clone(r.s.Edited)
	return s
}
