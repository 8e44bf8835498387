// Package logger provides the logging interface used across nativecookies.
// Store adapters, the reconciliation manager and the RPC bridge all log
// through it; cookie values never reach a logger, only names and domains.
package logger

import (
	"fmt"
	"log"
	"sync"
)

// Logger defines the interface for leveled logging across all components.
type Logger interface {
	// Debug logs a diagnostic message. Implementations may drop it.
	Debug(format string, args ...interface{})

	// Info logs an informational message (e.g., "RPC listening on :6801").
	Info(format string, args ...interface{})

	// Warning logs a recoverable problem (e.g., "webview store unavailable, using shared store").
	Warning(format string, args ...interface{})

	// Error logs a failure that was converted into a default result.
	Error(format string, args ...interface{})

	// Close releases resources held by the logger.
	// Safe to call multiple times. Returns nil for loggers without resources.
	Close() error
}

// StandardLogger wraps the stdlib *log.Logger for console/file output.
type StandardLogger struct {
	logger *log.Logger
	debug  bool
	prefix string
}

// NewStandardLogger creates a logger that wraps the given *log.Logger.
// Debug messages are dropped unless debug is true.
func NewStandardLogger(l *log.Logger, debug bool) *StandardLogger {
	return &StandardLogger{logger: l, debug: debug}
}

// Named returns a logger writing to the same output with a component tag
// after the level, e.g. "[INFO] manager: ...".
func (s *StandardLogger) Named(component string) *StandardLogger {
	return &StandardLogger{logger: s.logger, debug: s.debug, prefix: component + ": "}
}

func (s *StandardLogger) printf(level, format string, args []interface{}) {
	s.logger.Printf("["+level+"] "+s.prefix+format, args...)
}

// Debug is dropped unless the logger was created with debug on.
func (s *StandardLogger) Debug(format string, args ...interface{}) {
	if s.debug {
		s.printf("DEBUG", format, args)
	}
}

func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.printf("INFO", format, args)
}

func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.printf("WARNING", format, args)
}

func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.printf("ERROR", format, args)
}

// Close does nothing; the caller owns the underlying writer.
func (s *StandardLogger) Close() error {
	return nil
}

// NopLogger is a logger that discards all messages.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(format string, args ...interface{})   {}
func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

// Ensure implementations satisfy the Logger interface.
var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
)

// MockLogger records every formatted message for tests. It is safe for
// concurrent use; bulk deletions log from several goroutines.
type MockLogger struct {
	mu           sync.Mutex
	DebugCalls   []string
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.record(&m.DebugCalls, format, args)
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.record(&m.InfoCalls, format, args)
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.record(&m.WarningCalls, format, args)
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.record(&m.ErrorCalls, format, args)
}

// Close records that Close was called.
func (m *MockLogger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

func (m *MockLogger) record(calls *[]string, format string, args []interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*calls = append(*calls, fmt.Sprintf(format, args...))
}

// Ensure MockLogger satisfies the Logger interface.
var _ Logger = (*MockLogger)(nil)
