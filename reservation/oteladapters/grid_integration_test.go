package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation"
	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation/oteladapters"
)

func Test_Grid_WithOpenTelemetryAdapters(t *testing.T) {
	ctx := context.Background()
	reader, metrics := newTestMeter()
	exporter, tracing := newTestTracer()

	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	grid, err := reservation.NewGrid(1, 2,
		reservation.WithContextualLogger(logger),
		reservation.WithMetrics(metrics),
		reservation.WithTracing(tracing),
	)
	require.NoError(t, err)

	ok, err := grid.Reserve(ctx, reservation.BuildRequest(0, 0))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = grid.Reserve(ctx, reservation.BuildRequest(0, 0, 1))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = grid.Reserve(ctx, reservation.BuildRequest(0, 1))
	require.NoError(t, err)
	require.True(t, ok)

	resourceMetrics := collect(t, reader)

	attempts := findMetric[metricdata.Sum[int64]](t, resourceMetrics, "reservation_reserve_attempts_total")
	var total int64
	for _, dataPoint := range attempts.DataPoints {
		total += dataPoint.Value
	}
	assert.Equal(t, int64(3), total)

	remaining := findMetric[metricdata.Gauge[float64]](t, resourceMetrics, "reservation_seats_remaining")
	require.Len(t, remaining.DataPoints, 1)
	assert.InDelta(t, 0.0, remaining.DataPoints[0].Value, 0.0001)

	exhausted := findMetric[metricdata.Sum[int64]](t, resourceMetrics, "reservation_grid_exhausted_total")
	require.Len(t, exhausted.DataPoints, 1)
	assert.Equal(t, int64(1), exhausted.DataPoints[0].Value)

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, codes.Unset, spans[1].Status.Code)
	assert.Equal(t, codes.Ok, spans[2].Status.Code)

	output := buf.String()
	assert.Contains(t, output, "seat conflict detected")
	assert.Contains(t, output, "grid exhausted, no free seats left")
}
