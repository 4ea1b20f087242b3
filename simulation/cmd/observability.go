package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation"
	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation/oteladapters"
)

const (
	serviceName       = "seat-reservation-simulation"
	spanNameRun       = "simulation.run"
	attrRunID         = "run.id"
	shutdownTimeout   = 5 * time.Second
	totalsIndentation = "  - "
)

// observabilityProviders holds the OpenTelemetry SDK providers of one run.
// Spans are exported as pretty-printed JSON to the given writer; metrics are kept in a manual reader
// and summarized once at the end.
type observabilityProviders struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	reader         *sdkmetric.ManualReader
}

func newObservabilityProviders(ctx context.Context, runID string, traceOut io.Writer) (*observabilityProviders, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			attribute.String(attrRunID, runID),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(traceOut), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &observabilityProviders{
		tracerProvider: tracerProvider,
		meterProvider:  meterProvider,
		reader:         reader,
	}, nil
}

// gridOptions wires the OpenTelemetry adapters into the grid.
// The contextual logger emits through the global LoggerProvider, so reserve logs carry the trace and span IDs
// of the reserve span.
func (p *observabilityProviders) gridOptions() []reservation.Option {
	return []reservation.Option{
		reservation.WithContextualLogger(oteladapters.NewSlogBridgeLogger(serviceName)),
		reservation.WithMetrics(oteladapters.NewMetricsCollector(p.meterProvider.Meter(serviceName))),
		reservation.WithTracing(oteladapters.NewTracingCollector(p.tracerProvider.Tracer(serviceName))),
	}
}

// startRunSpan starts the root span; every reserve span of the run becomes its child.
func (p *observabilityProviders) startRunSpan(ctx context.Context, runID string) (context.Context, trace.Span) {
	return p.tracerProvider.Tracer(serviceName).Start(ctx, spanNameRun,
		trace.WithAttributes(attribute.String(attrRunID, runID)))
}

// logTotals collects the metrics once and logs one line per data point.
func (p *observabilityProviders) logTotals(ctx context.Context) error {
	var resourceMetrics metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &resourceMetrics); err != nil {
		return fmt.Errorf("failed to collect metrics: %w", err)
	}

	log.Printf("%s %s", StatusIcon("stats"), Header("Metric totals:"))

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			for _, line := range describeMetric(m) {
				log.Printf("%s%s", totalsIndentation, line)
			}
		}
	}

	return nil
}

// Shutdown flushes pending spans and stops both providers.
func (p *observabilityProviders) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(
		p.tracerProvider.Shutdown(ctx),
		p.meterProvider.Shutdown(ctx),
	)
}

func describeMetric(m metricdata.Metrics) []string {
	var lines []string

	switch data := m.Data.(type) {
	case metricdata.Sum[int64]:
		for _, dp := range data.DataPoints {
			lines = append(lines, fmt.Sprintf("%s%s = %d", m.Name, formatAttributes(dp.Attributes), dp.Value))
		}
	case metricdata.Gauge[float64]:
		for _, dp := range data.DataPoints {
			lines = append(lines, fmt.Sprintf("%s%s = %g", m.Name, formatAttributes(dp.Attributes), dp.Value))
		}
	case metricdata.Histogram[float64]:
		for _, dp := range data.DataPoints {
			mean := 0.0
			if dp.Count > 0 {
				mean = dp.Sum / float64(dp.Count)
			}

			lines = append(lines, fmt.Sprintf("%s%s count=%d mean=%.6fs",
				m.Name, formatAttributes(dp.Attributes), dp.Count, mean))
		}
	}

	sort.Strings(lines)

	return lines
}

func formatAttributes(set attribute.Set) string {
	if set.Len() == 0 {
		return ""
	}

	parts := make([]string, 0, set.Len())
	for _, kv := range set.ToSlice() {
		parts = append(parts, fmt.Sprintf("%s=%s", kv.Key, kv.Value.Emit()))
	}

	return "{" + strings.Join(parts, ",") + "}"
}
