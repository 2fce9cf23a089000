// Package config loads pipeline configuration files
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/funkey7dan/newsroom/pkg/types"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every parse and validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// valuesPerProducer is the number of lines describing one producer:
// id, item count, queue size.
const valuesPerProducer = 3

// Load reads a configuration file. Files ending in .yaml, .yml or .json are
// decoded structurally; anything else uses the line-oriented format.
func Load(path string) (*types.PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg *types.PipelineConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		cfg, err = decodeStructured(data)
	default:
		cfg, err = Parse(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type value struct {
	line int
	text string
}

// Parse reads the line-oriented format: one value per line, producer
// triples followed by the screen queue size. Blank lines are skipped.
// Parse does not validate ranges; see Validate.
func Parse(r io.Reader) (*types.PipelineConfig, error) {
	var values []value

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		values = append(values, value{line: line, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%w: missing screen queue size", ErrInvalidConfig)
	}

	last := values[len(values)-1]
	screen, err := atoi(last)
	if err != nil {
		return nil, err
	}

	body := values[:len(values)-1]
	n := len(body) / valuesPerProducer

	cfg := &types.PipelineConfig{
		Producers:       make([]types.ProducerSpec, 0, n),
		ScreenQueueSize: screen,
		Ignored:         len(body) % valuesPerProducer,
	}

	for i := 0; i < n; i++ {
		triple := body[i*valuesPerProducer : (i+1)*valuesPerProducer]

		var nums [valuesPerProducer]int
		for j, v := range triple {
			if nums[j], err = atoi(v); err != nil {
				return nil, err
			}
		}

		cfg.Producers = append(cfg.Producers, types.ProducerSpec{
			ID:        nums[0],
			Items:     nums[1],
			QueueSize: nums[2],
		})
	}

	return cfg, nil
}

func atoi(v value) (int, error) {
	n, err := strconv.Atoi(v.text)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %q is not an integer", ErrInvalidConfig, v.line, v.text)
	}
	return n, nil
}

func decodeStructured(data []byte) (*types.PipelineConfig, error) {
	var cfg types.PipelineConfig

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidConfig)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// Validate checks value ranges and producer id uniqueness
func Validate(cfg *types.PipelineConfig) error {
	if cfg.ScreenQueueSize < 1 {
		return fmt.Errorf("%w: screen queue size must be at least 1, got %d", ErrInvalidConfig, cfg.ScreenQueueSize)
	}

	ids := make(map[int]bool, len(cfg.Producers))
	for _, p := range cfg.Producers {
		if ids[p.ID] {
			return fmt.Errorf("%w: duplicate producer id %d", ErrInvalidConfig, p.ID)
		}
		ids[p.ID] = true

		if p.Items < 0 {
			return fmt.Errorf("%w: producer %d: item count must not be negative, got %d", ErrInvalidConfig, p.ID, p.Items)
		}
		if p.QueueSize < 1 {
			return fmt.Errorf("%w: producer %d: queue size must be at least 1, got %d", ErrInvalidConfig, p.ID, p.QueueSize)
		}
	}

	return nil
}
