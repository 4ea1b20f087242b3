// Package testdoubles provides test doubles (spies) for the reservation observability interfaces.
//
// This package contains spy implementations for the dependency-free observability
// interfaces used by reservation.Grid:
//   - LoggerSpy: captures plain leveled logging calls
//   - ContextualLoggerSpy: captures structured logging with context
//   - MetricsCollectorSpy: captures metrics recording calls for verification
//   - TracingCollectorSpy: captures tracing spans with their status and attributes
//
// All spies are safe for concurrent use, so they can be shared by many goroutines
// hammering the same Grid.
package testdoubles
