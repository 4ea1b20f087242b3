package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation/oteladapters"
)

func newTestMeter() (*sdkmetric.ManualReader, *oteladapters.MetricsCollector) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return reader, oteladapters.NewMetricsCollector(provider.Meter("test"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func findMetric[T any](t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) T {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name != name {
				continue
			}

			data, ok := m.Data.(T)
			require.True(t, ok, "metric %s has unexpected type %T", name, m.Data)

			return data
		}
	}

	t.Fatalf("metric %s not found", name)

	var zero T
	return zero
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	reader, collector := newTestMeter()

	collector.RecordDuration("reservation_reserve_duration_seconds", 250*time.Millisecond, map[string]string{
		"operation": "reserve",
		"status":    "success",
	})

	histogram := findMetric[metricdata.Histogram[float64]](t, collect(t, reader), "reservation_reserve_duration_seconds")
	require.Len(t, histogram.DataPoints, 1)

	dataPoint := histogram.DataPoints[0]
	assert.Equal(t, uint64(1), dataPoint.Count)
	assert.InDelta(t, 0.25, dataPoint.Sum, 0.001)

	expectedAttrs := attribute.NewSet(
		attribute.String("operation", "reserve"),
		attribute.String("status", "success"),
	)
	assert.True(t, dataPoint.Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter_SeparatesLabelSets(t *testing.T) {
	reader, collector := newTestMeter()
	ctx := context.Background()

	success := map[string]string{"status": "success"}
	rejected := map[string]string{"status": "rejected"}

	collector.IncrementCounter("reservation_reserve_attempts_total", success)
	collector.IncrementCounterContext(ctx, "reservation_reserve_attempts_total", success)
	collector.IncrementCounterContext(ctx, "reservation_reserve_attempts_total", rejected)

	sum := findMetric[metricdata.Sum[int64]](t, collect(t, reader), "reservation_reserve_attempts_total")
	require.Len(t, sum.DataPoints, 2)
	assert.True(t, sum.IsMonotonic)

	byStatus := make(map[string]int64)
	for _, dataPoint := range sum.DataPoints {
		status, _ := dataPoint.Attributes.Value("status")
		byStatus[status.AsString()] = dataPoint.Value
	}

	assert.Equal(t, map[string]int64{"success": 2, "rejected": 1}, byStatus)
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	reader, collector := newTestMeter()

	collector.RecordValue("reservation_seats_remaining", 12, nil)
	collector.RecordValueContext(context.Background(), "reservation_seats_remaining", 7, nil)

	gauge := findMetric[metricdata.Gauge[float64]](t, collect(t, reader), "reservation_seats_remaining")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 7.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_ConcurrentUse(t *testing.T) {
	reader, collector := newTestMeter()

	const goroutines = 16
	const perGoroutine = 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				collector.IncrementCounter("reservation_reserve_attempts_total", nil)
				collector.RecordDuration("reservation_reserve_duration_seconds", time.Millisecond, nil)
			}
		}()
	}
	wg.Wait()

	resourceMetrics := collect(t, reader)

	sum := findMetric[metricdata.Sum[int64]](t, resourceMetrics, "reservation_reserve_attempts_total")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(goroutines*perGoroutine), sum.DataPoints[0].Value)

	histogram := findMetric[metricdata.Histogram[float64]](t, resourceMetrics, "reservation_reserve_duration_seconds")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(goroutines*perGoroutine), histogram.DataPoints[0].Count)
}
