// Package reservation provides a concurrency-safe seat grid for simulating
// competing reservations across multiple theatres.
//
// A Grid owns a fixed matrix of seats (one row per theatre) and a redundant
// counter of free seats. All mutations happen inside a single grid-wide
// critical section, which makes every Reserve call linearizable with respect
// to every other Reserve call: a request either reserves all of its seats or
// none of them.
//
// Key types:
//   - Grid: the shared seat matrix with Reserve, IsExhausted, HasFreeSeats and Snapshot
//   - Request: a theatre index plus the seat indices to reserve
//   - Snapshot: a read-only copy of the grid for reporting
//
// Two read paths exist on purpose:
//   - IsExhausted loads the atomic counter and never touches the mutex
//   - HasFreeSeats scans the matrix without the mutex, a relaxed read that is
//     only suitable for liveness decisions (should an actor keep trying?)
//
// Common usage pattern:
//
//	grid, err := reservation.NewGrid(3, 20,
//		reservation.WithContextualLogger(logger),
//		reservation.WithMetrics(metricsCollector),
//	)
//	if err != nil {
//		// handle error
//	}
//
//	ok, err := grid.Reserve(ctx, reservation.BuildRequest(0, 4, 5))
//	if err != nil {
//		// invalid request: theatre or seat out of range, or no seats at all
//	}
//
//	if !ok {
//		// at least one seat was already taken, nothing was changed
//	}
//
// Observability is dependency-free: Logger, ContextualLogger, MetricsCollector
// and TracingCollector are small interfaces, see package oteladapters for
// OpenTelemetry implementations.
package reservation
