package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation/oteladapters"
)

func Test_SlogBridgeLoggerWithHandler_AllLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	ctx := context.Background()

	logger.DebugContext(ctx, "seats reserved", "theatre", 1)
	logger.InfoContext(ctx, "grid exhausted, no free seats left")
	logger.WarnContext(ctx, "invalid reservation request rejected", "error", "boom")
	logger.ErrorContext(ctx, "error message")
	logger.Info("plain info")

	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG"`)
	assert.Contains(t, output, `"msg":"seats reserved"`)
	assert.Contains(t, output, `"theatre":1`)
	assert.Contains(t, output, `"level":"WARN"`)
	assert.Contains(t, output, `"error":"boom"`)
	assert.Contains(t, output, `"level":"ERROR"`)
	assert.Contains(t, output, `"msg":"plain info"`)
}

func Test_SlogBridgeLoggerWithHandler_RespectsHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	logger.DebugContext(context.Background(), "seats reserved")
	logger.Debug("seat conflict detected")

	assert.Empty(t, buf.String())
}

func Test_SlogBridgeLogger_WithActiveSpan(t *testing.T) {
	provider := sdktrace.NewTracerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	ctx, span := provider.Tracer("test").Start(context.Background(), "reservation.reserve")
	defer span.End()

	logger := oteladapters.NewSlogBridgeLogger("test")

	assert.NotPanics(t, func() {
		logger.InfoContext(ctx, "seats reserved", "theatre", 0)
		logger.Warn("invalid reservation request rejected")
	})
}

func Test_OTelLogger_AllLevels(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("test"))
	ctx := context.Background()

	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "seats reserved", "theatre", 1, "seat_count", int64(2), "duration_ms", 0.5)
		logger.InfoContext(ctx, "grid exhausted, no free seats left", "ok", true)
		logger.WarnContext(ctx, "odd args", "dangling")
		logger.ErrorContext(ctx, "non-string key", 42, "value")
	})
}
