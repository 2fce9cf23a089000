// Package mocks provides test doubles for newsroom interfaces.
package mocks

import (
	"strings"
	"sync"

	"github.com/funkey7dan/newsroom/pkg/logger"
)

// LogEntry is one recorded log call
type LogEntry struct {
	Level   string
	Target  string
	Message string
	Fields  map[string]interface{}
}

// MockLogger records every log call. Loggers derived with WithTarget share
// the parent's records.
type MockLogger struct {
	target string
	store  *logStore
}

type logStore struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMockLogger creates a new recording logger
func NewMockLogger() *MockLogger {
	return &MockLogger{store: &logStore{}}
}

func (m *MockLogger) record(level, message string, fields []logger.Field) {
	entry := LogEntry{
		Level:   level,
		Target:  m.target,
		Message: message,
		Fields:  make(map[string]interface{}, len(fields)),
	}
	for _, f := range fields {
		entry.Fields[f.Key] = f.Value
	}

	m.store.mu.Lock()
	m.store.entries = append(m.store.entries, entry)
	m.store.mu.Unlock()
}

// Info records an info message
func (m *MockLogger) Info(message string, fields ...logger.Field) {
	m.record("info", message, fields)
}

// Error records an error message
func (m *MockLogger) Error(message string, fields ...logger.Field) {
	m.record("error", message, fields)
}

// Warn records a warning
func (m *MockLogger) Warn(message string, fields ...logger.Field) {
	m.record("warn", message, fields)
}

// Debug records a debug message
func (m *MockLogger) Debug(message string, fields ...logger.Field) {
	m.record("debug", message, fields)
}

// Success records a success message
func (m *MockLogger) Success(message string, fields ...logger.Field) {
	m.record("success", message, fields)
}

// WithTarget returns a logger recording under target
func (m *MockLogger) WithTarget(target string) logger.Logger {
	return &MockLogger{target: target, store: m.store}
}

// Entries returns a copy of everything recorded so far
func (m *MockLogger) Entries() []LogEntry {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return append([]LogEntry(nil), m.store.entries...)
}

// Find returns the entries at level whose message contains substr
func (m *MockLogger) Find(level, substr string) []LogEntry {
	var found []LogEntry
	for _, e := range m.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			found = append(found, e)
		}
	}
	return found
}
