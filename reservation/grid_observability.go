package reservation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// logDebug logs at debug level to every configured logger.
func (g *Grid) logDebug(ctx context.Context, msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}

	if g.contextualLogger != nil {
		g.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

// logInfo logs at info level to every configured logger.
func (g *Grid) logInfo(ctx context.Context, msg string, args ...any) {
	if g.logger != nil {
		g.logger.Info(msg, args...)
	}

	if g.contextualLogger != nil {
		g.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

// logWarn logs at warn level to every configured logger.
func (g *Grid) logWarn(ctx context.Context, msg string, args ...any) {
	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}

	if g.contextualLogger != nil {
		g.contextualLogger.WarnContext(ctx, msg, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordReserveMetrics records the duration and the outcome counter of one Reserve call.
func (g *Grid) recordReserveMetrics(ctx context.Context, status string, duration time.Duration) {
	if g.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operationReserve,
		"status":          status,
	}

	if contextualCollector, ok := g.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricReserveDuration, duration, labels)
		contextualCollector.IncrementCounterContext(ctx, metricReserveAttempts, labels)

		return
	}

	g.metricsCollector.RecordDuration(metricReserveDuration, duration, labels)
	g.metricsCollector.IncrementCounter(metricReserveAttempts, labels)
}

// recordRemainingMetric records the number of free seats after a successful reservation.
func (g *Grid) recordRemainingMetric(ctx context.Context, remaining int64) {
	if g.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operationReserve,
	}

	if contextualCollector, ok := g.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricSeatsRemaining, float64(remaining), labels)
		return
	}

	g.metricsCollector.RecordValue(metricSeatsRemaining, float64(remaining), labels)
}

// recordExhaustedMetric counts the reservation that took the last free seat.
func (g *Grid) recordExhaustedMetric(ctx context.Context) {
	if g.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operationReserve,
	}

	if contextualCollector, ok := g.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricGridExhaustions, labels)
		return
	}

	g.metricsCollector.IncrementCounter(metricGridExhaustions, labels)
}

// startReserveSpan starts a tracing span for a Reserve call if the tracing collector is configured.
func (g *Grid) startReserveSpan(ctx context.Context, request Request) (context.Context, SpanContext) {
	if g.tracingCollector == nil {
		return ctx, nil
	}

	attrs := map[string]string{
		spanAttrOperation: operationReserve,
		spanAttrTheatre:   fmt.Sprintf("%d", request.Theatre),
		spanAttrSeatCount: fmt.Sprintf("%d", request.Size()),
	}

	return g.tracingCollector.StartSpan(ctx, spanNameReserve, attrs)
}

// finishReserveSpan finishes a span for a Reserve call that passed validation.
func (g *Grid) finishReserveSpan(span SpanContext, status string, remaining int64, duration time.Duration) {
	if g.tracingCollector == nil || span == nil {
		return
	}

	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))

	g.tracingCollector.FinishSpan(span, status, map[string]string{
		spanAttrSeatsRemaining: fmt.Sprintf("%d", remaining),
	})
}

// finishReserveSpanError finishes a span for a Reserve call with an invalid request.
func (g *Grid) finishReserveSpanError(span SpanContext, err error, duration time.Duration) {
	if g.tracingCollector == nil || span == nil {
		return
	}

	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))

	g.tracingCollector.FinishSpan(span, statusError, map[string]string{
		spanAttrErrorType: errorType(err),
	})
}

// errorType extracts a string representation of the error type for metrics and span labeling.
func errorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrEmptyRequest):
		return "empty_request"
	case errors.Is(err, ErrTheatreOutOfRange):
		return "theatre_out_of_range"
	case errors.Is(err, ErrSeatOutOfRange):
		return "seat_out_of_range"
	default:
		return "other"
	}
}
