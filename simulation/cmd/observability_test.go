package main

import (
	"context"
	"sync"
	"testing"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/trace"
)

// recordedLog is one record that reached the global LoggerProvider.
type recordedLog struct {
	body   string
	traced bool
}

// recordingLoggerProvider captures every emitted record together with whether its context carried a valid span.
type recordingLoggerProvider struct {
	embedded.LoggerProvider

	mu      sync.Mutex
	records []recordedLog
}

func (p *recordingLoggerProvider) Logger(string, ...otellog.LoggerOption) otellog.Logger {
	return &recordingLogger{provider: p}
}

// tracedBodies returns the bodies of all records that were emitted inside a span.
func (p *recordingLoggerProvider) tracedBodies() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var bodies []string
	for _, record := range p.records {
		if record.traced {
			bodies = append(bodies, record.body)
		}
	}

	return bodies
}

type recordingLogger struct {
	embedded.Logger

	provider *recordingLoggerProvider
}

func (l *recordingLogger) Emit(ctx context.Context, record otellog.Record) {
	l.provider.mu.Lock()
	defer l.provider.mu.Unlock()

	l.provider.records = append(l.provider.records, recordedLog{
		body:   record.Body().AsString(),
		traced: trace.SpanContextFromContext(ctx).IsValid(),
	})
}

func (l *recordingLogger) Enabled(context.Context, otellog.Record) bool {
	return true
}

// installRecordingLoggerProvider swaps the global LoggerProvider for the duration of the test.
func installRecordingLoggerProvider(t *testing.T) *recordingLoggerProvider {
	t.Helper()

	provider := &recordingLoggerProvider{}
	global.SetLoggerProvider(provider)
	t.Cleanup(func() { global.SetLoggerProvider(noop.NewLoggerProvider()) })

	return provider
}
