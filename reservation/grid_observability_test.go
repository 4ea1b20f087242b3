package reservation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation"
	"github.com/AntonStoeckl/concurrent-seat-reservation-go/testutil/observability/testdoubles"
)

func Test_Reserve_WithLoggers_LogsDecisionsAndExhaustion(t *testing.T) {
	ctx := context.Background()
	logger := testdoubles.NewLoggerSpy(true)
	contextualLogger := testdoubles.NewContextualLoggerSpy(true)

	grid, err := reservation.NewGrid(1, 2,
		reservation.WithLogger(logger),
		reservation.WithContextualLogger(contextualLogger),
	)
	require.NoError(t, err)

	_, _ = grid.Reserve(ctx, reservation.BuildRequest(0, 0))
	_, _ = grid.Reserve(ctx, reservation.BuildRequest(0, 0))
	_, _ = grid.Reserve(ctx, reservation.BuildRequest(0, 7))
	_, _ = grid.Reserve(ctx, reservation.BuildRequest(0, 1))

	for _, spy := range []interface {
		CountDebugLogs(message string) int
		HasWarnLog(message string) bool
		HasInfoLog(message string) bool
	}{logger, contextualLogger} {
		assert.Equal(t, 2, spy.CountDebugLogs("seats reserved"))
		assert.Equal(t, 1, spy.CountDebugLogs("seat conflict detected"))
		assert.True(t, spy.HasWarnLog("invalid reservation request rejected"))
		assert.True(t, spy.HasInfoLog("grid exhausted, no free seats left"))
	}

	for _, record := range contextualLogger.GetDebugRecords() {
		assert.NotNil(t, record.Context)
	}
}

func Test_Reserve_WithMetrics_RecordsOutcomes(t *testing.T) {
	ctx := context.Background()
	metrics := testdoubles.NewMetricsCollectorSpy(true)

	grid, err := reservation.NewGrid(1, 3, reservation.WithMetrics(metrics))
	require.NoError(t, err)

	_, _ = grid.Reserve(ctx, reservation.BuildRequest(0, 0, 1))
	_, _ = grid.Reserve(ctx, reservation.BuildRequest(0, 1))
	_, _ = grid.Reserve(ctx, reservation.BuildRequest(5, 1))

	assert.Equal(t, 1, metrics.CountCounterRecords("reservation_reserve_attempts_total", "status", "success"))
	assert.Equal(t, 1, metrics.CountCounterRecords("reservation_reserve_attempts_total", "status", "rejected"))
	assert.Equal(t, 1, metrics.CountCounterRecords("reservation_reserve_attempts_total", "status", "error"))
	assert.Len(t, metrics.GetDurationRecords(), 3)

	remaining, found := metrics.LastValue("reservation_seats_remaining")
	require.True(t, found)
	assert.InDelta(t, 1.0, remaining, 0.0001)

	assert.Equal(t, 0, metrics.CountCounterRecords("reservation_grid_exhausted_total", "", ""))

	_, _ = grid.Reserve(ctx, reservation.BuildRequest(0, 2))

	assert.Equal(t, 1, metrics.CountCounterRecords("reservation_grid_exhausted_total", "", ""))
}

func Test_Reserve_WithTracing_FinishesOneSpanPerCall(t *testing.T) {
	ctx := context.Background()
	tracing := testdoubles.NewTracingCollectorSpy(true)

	grid, err := reservation.NewGrid(2, 2, reservation.WithTracing(tracing))
	require.NoError(t, err)

	_, _ = grid.Reserve(ctx, reservation.BuildRequest(1, 0))
	_, _ = grid.Reserve(ctx, reservation.BuildRequest(1, 0, 1))
	_, _ = grid.Reserve(ctx, reservation.BuildRequest(1))

	assert.Equal(t, 1, tracing.CountSpansWithStatus("reservation.reserve", "success"))
	assert.Equal(t, 1, tracing.CountSpansWithStatus("reservation.reserve", "rejected"))
	assert.Equal(t, 1, tracing.CountSpansWithStatus("reservation.reserve", "error"))

	records := tracing.GetSpanRecords()
	require.Len(t, records, 3)

	assert.Equal(t, "1", records[0].StartAttributes["theatre"])
	assert.Equal(t, "1", records[0].StartAttributes["seat_count"])
	assert.Equal(t, "3", records[0].EndAttributes["seats_remaining"])
	assert.Contains(t, records[0].SpanContext.GetAttributes(), "duration_ms")
	assert.Equal(t, "empty_request", records[2].EndAttributes["error_type"])
}

func Test_Reserve_WithoutObservability_DoesNotPanic(t *testing.T) {
	grid, err := reservation.NewGrid(1, 1)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		_, _ = grid.Reserve(context.Background(), reservation.BuildRequest(0, 0))
		_, _ = grid.Reserve(context.Background(), reservation.BuildRequest(0, 3))
	})
}
