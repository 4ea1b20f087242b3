package testdoubles

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation"
)

const (
	levelDebug = "debug"
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
)

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context // context.TODO() for LoggerSpy records
}

// logRecorder is the concurrency-safe storage shared by LoggerSpy and ContextualLoggerSpy.
type logRecorder struct {
	records     []SpyLogRecord
	mu          sync.Mutex
	recordCalls bool
}

func (r *logRecorder) record(ctx context.Context, level, msg string, args []any) {
	if !r.recordCalls {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, SpyLogRecord{
		Level:   level,
		Message: msg,
		Args:    append([]any(nil), args...),
		Context: ctx,
	})
}

func (r *logRecorder) byLevel(level string) []SpyLogRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []SpyLogRecord
	for _, record := range r.records {
		if record.Level == level {
			records = append(records, record)
		}
	}

	return records
}

func (r *logRecorder) count(level, message string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, record := range r.records {
		if record.Level == level && record.Message == message {
			count++
		}
	}

	return count
}

// Reset clears all recorded log calls.
func (r *logRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = r.records[:0]
}

// GetTotalRecordCount returns the total number of log records across all levels.
func (r *logRecorder) GetTotalRecordCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.records)
}

// GetDebugRecords returns a copy of all debug log records.
func (r *logRecorder) GetDebugRecords() []SpyLogRecord { return r.byLevel(levelDebug) }

// GetInfoRecords returns a copy of all info log records.
func (r *logRecorder) GetInfoRecords() []SpyLogRecord { return r.byLevel(levelInfo) }

// GetWarnRecords returns a copy of all warn log records.
func (r *logRecorder) GetWarnRecords() []SpyLogRecord { return r.byLevel(levelWarn) }

// GetErrorRecords returns a copy of all error log records.
func (r *logRecorder) GetErrorRecords() []SpyLogRecord { return r.byLevel(levelError) }

// HasDebugLog checks if a debug log with the specified message exists.
func (r *logRecorder) HasDebugLog(message string) bool { return r.count(levelDebug, message) > 0 }

// HasInfoLog checks if an info log with the specified message exists.
func (r *logRecorder) HasInfoLog(message string) bool { return r.count(levelInfo, message) > 0 }

// HasWarnLog checks if a warn log with the specified message exists.
func (r *logRecorder) HasWarnLog(message string) bool { return r.count(levelWarn, message) > 0 }

// HasErrorLog checks if an error log with the specified message exists.
func (r *logRecorder) HasErrorLog(message string) bool { return r.count(levelError, message) > 0 }

// CountDebugLogs returns how many debug logs with the specified message were recorded.
func (r *logRecorder) CountDebugLogs(message string) int { return r.count(levelDebug, message) }

// ContextualLoggerSpy is a reservation.ContextualLogger implementation that captures contextual logging calls for testing.
type ContextualLoggerSpy struct {
	logRecorder
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy instance.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{logRecorder: logRecorder{recordCalls: recordCalls}}
}

// DebugContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelDebug, msg, args)
}

// InfoContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelInfo, msg, args)
}

// WarnContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelWarn, msg, args)
}

// ErrorContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelError, msg, args)
}

// LoggerSpy is a reservation.Logger implementation that captures plain logging calls for testing.
type LoggerSpy struct {
	logRecorder
}

// NewLoggerSpy creates a new LoggerSpy instance.
func NewLoggerSpy(recordCalls bool) *LoggerSpy {
	return &LoggerSpy{logRecorder: logRecorder{recordCalls: recordCalls}}
}

// Debug implements the Logger interface for testing.
func (s *LoggerSpy) Debug(msg string, args ...any) { s.record(context.TODO(), levelDebug, msg, args) }

// Info implements the Logger interface for testing.
func (s *LoggerSpy) Info(msg string, args ...any) { s.record(context.TODO(), levelInfo, msg, args) }

// Warn implements the Logger interface for testing.
func (s *LoggerSpy) Warn(msg string, args ...any) { s.record(context.TODO(), levelWarn, msg, args) }

// Error implements the Logger interface for testing.
func (s *LoggerSpy) Error(msg string, args ...any) { s.record(context.TODO(), levelError, msg, args) }

// Compile-time checks to ensure the spies implement the reservation logging interfaces.
var (
	_ reservation.ContextualLogger = (*ContextualLoggerSpy)(nil)
	_ reservation.Logger           = (*LoggerSpy)(nil)
)
