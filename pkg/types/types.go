// Package types defines the core data structures shared by the newsroom pipeline
package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Category classifies a news item
type Category int

const (
	// CategoryUnknown is the zero value and never a valid routing target
	CategoryUnknown Category = iota
	CategorySports
	CategoryNews
	CategoryWeather
)

// Categories lists every routable category in classification priority order.
var Categories = []Category{CategorySports, CategoryNews, CategoryWeather}

// String returns the upper-case keyword used in item payloads
func (c Category) String() string {
	switch c {
	case CategorySports:
		return "SPORTS"
	case CategoryNews:
		return "NEWS"
	case CategoryWeather:
		return "WEATHER"
	default:
		return "UNKNOWN"
	}
}

// IsValid reports whether c is one of the routable categories
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps a keyword back to its Category
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown category: %q", s)
}

// DoneMarker is the printed form of the sentinel and the terminal output line
const DoneMarker = "DONE"

// Item is a single unit flowing through the pipeline
type Item struct {
	ID       string
	Producer int
	Category Category
	Seq      int
	Payload  string

	sentinel bool
}

// NewItem creates a categorized item for producer id with its per-category sequence number
func NewItem(producer int, category Category, seq int) Item {
	return Item{
		ID:       uuid.New().String(),
		Producer: producer,
		Category: category,
		Seq:      seq,
		Payload:  fmt.Sprintf("Producer %d %s %d", producer, category, seq),
	}
}

// Sentinel returns the end-of-stream marker emitted by the given source.
// Stages that originate a sentinel without a producer pass 0.
func Sentinel(from int) Item {
	return Item{
		ID:       uuid.New().String(),
		Producer: from,
		Payload:  DoneMarker,
		sentinel: true,
	}
}

// IsSentinel reports whether the item marks end-of-stream
func (i Item) IsSentinel() bool {
	return i.sentinel
}

// String returns the payload as printed by the screen
func (i Item) String() string {
	return i.Payload
}

// ProducerSpec configures one producer
type ProducerSpec struct {
	ID        int `yaml:"id" json:"id"`
	Items     int `yaml:"items" json:"items"`
	QueueSize int `yaml:"queueSize" json:"queueSize"`
}

// PipelineConfig is everything the pipeline needs to run
type PipelineConfig struct {
	Producers       []ProducerSpec `yaml:"producers" json:"producers"`
	ScreenQueueSize int            `yaml:"screenQueueSize" json:"screenQueueSize"`

	// Ignored counts trailing values that did not form a full producer triple
	Ignored int `yaml:"-" json:"-"`
}

// TotalItems returns the number of regular items all producers will emit
func (c *PipelineConfig) TotalItems() int {
	total := 0
	for _, p := range c.Producers {
		total += p.Items
	}
	return total
}
