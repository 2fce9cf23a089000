package engine

import "errors"

var (
	// ErrUnclassifiable indicates an item that is neither a known category
	// nor a sentinel. It means the producer/dispatcher contract is broken
	// and the run cannot continue.
	ErrUnclassifiable = errors.New("item cannot be classified")

	// ErrAlreadyRun is returned when Run is called twice on one pipeline
	ErrAlreadyRun = errors.New("pipeline has already run")
)
