// Package engine runs the newsroom pipeline.
//
// Producers write into their own bounded queues. A single dispatcher drains
// them round-robin and routes each item to an unbounded per-category queue.
// One editor per category delays each item and forwards it to the shared
// bounded screen queue, which the screen manager prints in dequeue order.
//
// Shutdown is carried by sentinels: every producer ends its stream with one,
// the dispatcher emits one per category once all producers have retired,
// each editor forwards exactly one, and the screen manager stops after
// counting one per editor.
//
// The implementation is split across files:
//   - pipeline.go: construction and the Run lifecycle
//   - interfaces.go: the Stage interface and start order
//   - producer.go, dispatcher.go, editor.go, screen.go: the stages
//   - safegroup.go: panic-safe goroutine group
//   - stats.go: run counters
package engine
