package reservation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const (
	logMsgSeatsReserved   = "seats reserved"
	logMsgSeatConflict    = "seat conflict detected"
	logMsgInvalidRequest  = "invalid reservation request rejected"
	logMsgGridExhausted   = "grid exhausted, no free seats left"
	logAttrError          = "error"
	logAttrTheatre        = "theatre"
	logAttrSeatCount      = "seat_count"
	logAttrSeatsFlipped   = "seats_flipped"
	logAttrSeatsRemaining = "seats_remaining"
	logAttrDurationMS     = "duration_ms"

	metricReserveDuration  = "reservation_reserve_duration_seconds"
	metricReserveAttempts  = "reservation_reserve_attempts_total"
	metricSeatsRemaining   = "reservation_seats_remaining"
	metricGridExhaustions  = "reservation_grid_exhausted_total"
	spanNameReserve        = "reservation.reserve"
	spanAttrOperation      = "operation"
	spanAttrTheatre        = "theatre"
	spanAttrSeatCount      = "seat_count"
	spanAttrSeatsRemaining = "seats_remaining"
	spanAttrErrorType      = "error_type"
	spanAttrDurationMS     = "duration_ms"
	operationReserve       = "reserve"

	statusSuccess  = "success"
	statusRejected = "rejected"
	statusError    = "error"
)

// SeatState is the state of a single seat.
type SeatState uint32

const (
	Free     SeatState = iota // Seat can still be reserved.
	Reserved                  // Seat is taken.
)

// Grid is the shared seat matrix of all theatres.
//
// The seat cells are atomics only so that the relaxed scan in HasFreeSeats is well-defined under the
// Go memory model; every write still happens inside mu, together with the update of remaining.
type Grid struct {
	mu              sync.Mutex
	theatres        [][]atomic.Uint32
	seatsPerTheatre int
	remaining       atomic.Int64

	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewGrid creates a Grid with the given dimensions where all seats are free.
// Returns ErrInvalidDimensions if either dimension is not positive, or the first error returned by an option.
func NewGrid(theatres, seatsPerTheatre int, options ...Option) (*Grid, error) {
	if theatres <= 0 || seatsPerTheatre <= 0 {
		return nil, fmt.Errorf("%w: got %d theatres with %d seats", ErrInvalidDimensions, theatres, seatsPerTheatre)
	}

	g := &Grid{
		theatres:        make([][]atomic.Uint32, theatres),
		seatsPerTheatre: seatsPerTheatre,
	}

	for i := range g.theatres {
		g.theatres[i] = make([]atomic.Uint32, seatsPerTheatre)
	}

	g.remaining.Store(int64(theatres * seatsPerTheatre))

	for _, option := range options {
		if err := option(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Reserve tries to reserve all seats of the request in one atomic step.
//
// It returns (true, nil) if every seat was free and is now reserved, (false, nil) if at least one seat
// was already reserved, in which case nothing was changed, and (false, err) for requests that do not fit
// the grid (see ErrEmptyRequest, ErrTheatreOutOfRange, ErrSeatOutOfRange).
//
// The remaining counter drops by the number of seats that actually changed from Free to Reserved, not by
// request.Size(): a seat index repeated in one request is counted once.
//
// The context is only used for tracing and contextual logging, Reserve never blocks on anything but the grid mutex.
func (g *Grid) Reserve(ctx context.Context, request Request) (bool, error) {
	ctx, span := g.startReserveSpan(ctx, request)
	start := time.Now()

	if err := request.validate(len(g.theatres), g.seatsPerTheatre); err != nil {
		duration := time.Since(start)
		g.logWarn(ctx, logMsgInvalidRequest, logAttrError, err.Error(), logAttrTheatre, request.Theatre, logAttrSeatCount, request.Size())
		g.recordReserveMetrics(ctx, statusError, duration)
		g.finishReserveSpanError(span, err, duration)

		return false, err
	}

	flipped, remaining, ok := g.tryReserve(request)
	duration := time.Since(start)

	if !ok {
		g.logDebug(ctx, logMsgSeatConflict,
			logAttrTheatre, request.Theatre,
			logAttrSeatCount, request.Size(),
			logAttrDurationMS, toMilliseconds(duration))
		g.recordReserveMetrics(ctx, statusRejected, duration)
		g.finishReserveSpan(span, statusRejected, remaining, duration)

		return false, nil
	}

	g.logDebug(ctx, logMsgSeatsReserved,
		logAttrTheatre, request.Theatre,
		logAttrSeatCount, request.Size(),
		logAttrSeatsFlipped, flipped,
		logAttrSeatsRemaining, remaining,
		logAttrDurationMS, toMilliseconds(duration))
	g.recordReserveMetrics(ctx, statusSuccess, duration)
	g.recordRemainingMetric(ctx, remaining)
	g.finishReserveSpan(span, statusSuccess, remaining, duration)

	if remaining == 0 && flipped > 0 {
		g.logInfo(ctx, logMsgGridExhausted)
		g.recordExhaustedMetric(ctx)
	}

	return true, nil
}

// tryReserve is the critical section: check every requested seat, then reserve all of them.
// Returns the number of seats that changed from Free to Reserved, the remaining count after the
// decision and whether the request succeeded.
func (g *Grid) tryReserve(request Request) (int, int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	row := g.theatres[request.Theatre]

	for _, seat := range request.Seats {
		if SeatState(row[seat].Load()) == Reserved {
			return 0, g.remaining.Load(), false
		}
	}

	flipped := 0
	for _, seat := range request.Seats {
		if SeatState(row[seat].Swap(uint32(Reserved))) == Free {
			flipped++
		}
	}

	return flipped, g.remaining.Add(-int64(flipped)), true
}

// IsExhausted reports whether no free seat is left.
// It only loads the atomic counter and never contends for the grid mutex.
func (g *Grid) IsExhausted() bool {
	return g.remaining.Load() == 0
}

// Remaining returns the number of free seats.
func (g *Grid) Remaining() int {
	return int(g.remaining.Load())
}

// HasFreeSeats scans all theatres for a free seat without taking the grid mutex.
//
// This is a relaxed read: a concurrent Reserve may be half-way through its writes while the scan runs.
// Use it as a liveness check (is it still worth trying?), never to decide whether a reservation is valid.
// Once the grid is exhausted the scan returns false on every later call.
func (g *Grid) HasFreeSeats() bool {
	for i := range g.theatres {
		for j := range g.theatres[i] {
			if SeatState(g.theatres[i][j].Load()) == Free {
				return true
			}
		}
	}

	return false
}

// Dimensions returns the number of theatres and seats per theatre.
func (g *Grid) Dimensions() (int, int) {
	return len(g.theatres), g.seatsPerTheatre
}

// Capacity returns the total number of seats across all theatres.
func (g *Grid) Capacity() int {
	return len(g.theatres) * g.seatsPerTheatre
}

// Snapshot returns a deep copy of the current grid state.
// The copy is taken under the grid mutex, so it is consistent with the remaining counter.
func (g *Grid) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	theatres := make([][]SeatState, len(g.theatres))
	for i := range g.theatres {
		theatres[i] = make([]SeatState, g.seatsPerTheatre)
		for j := range g.theatres[i] {
			theatres[i][j] = SeatState(g.theatres[i][j].Load())
		}
	}

	return Snapshot{
		Theatres:  theatres,
		Remaining: int(g.remaining.Load()),
	}
}
