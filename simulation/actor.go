// Package simulation drives a population of concurrent actors against a reservation.Grid.
//
// Each Actor repeatedly asks for a random handful of seats in a random theatre until no free seat is
// left. The Supervisor starts the actors in waves and respawns finished ones while the grid is not
// exhausted. Report renders the final grid.
package simulation

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation"
)

// Settings shape the requests and the pacing of every actor.
type Settings struct {
	MinSeats int
	MaxSeats int
	MinDelay time.Duration
	MaxDelay time.Duration
}

// DefaultSettings returns the reference request shape and pacing.
func DefaultSettings() Settings {
	return Settings{
		MinSeats: MinSeatsPerRequest,
		MaxSeats: MaxSeatsPerRequest,
		MinDelay: MinConfirmationDelay,
		MaxDelay: MaxConfirmationDelay,
	}
}

// Validate checks that request sizes are positive and that both ranges are ordered.
func (s Settings) Validate() error {
	switch {
	case s.MinSeats < 1:
		return fmt.Errorf("%w: min seats %d must be at least 1", ErrInvalidSettings, s.MinSeats)
	case s.MaxSeats < s.MinSeats:
		return fmt.Errorf("%w: max seats %d below min seats %d", ErrInvalidSettings, s.MaxSeats, s.MinSeats)
	case s.MinDelay < 0:
		return fmt.Errorf("%w: min delay %s is negative", ErrInvalidSettings, s.MinDelay)
	case s.MaxDelay < s.MinDelay:
		return fmt.Errorf("%w: max delay %s below min delay %s", ErrInvalidSettings, s.MaxDelay, s.MinDelay)
	default:
		return nil
	}
}

// Actor is one customer competing for seats. An Actor runs once; the supervisor builds a new one with
// the same ID to respawn it.
type Actor struct {
	ID       int
	grid     *reservation.Grid
	rng      *rand.Rand
	settings Settings
	out      io.Writer
	stats    *Stats
}

// NewActor creates an actor. out receives one line per attempt and must be safe for concurrent use
// (see NewLineWriter). stats may be nil.
func NewActor(id int, grid *reservation.Grid, rng *rand.Rand, settings Settings, out io.Writer, stats *Stats) *Actor {
	return &Actor{
		ID:       id,
		grid:     grid,
		rng:      rng,
		settings: settings,
		out:      out,
		stats:    stats,
	}
}

// Run keeps reserving until the grid has no free seat left.
//
// Every iteration picks a theatre, a request size and that many seat indices (duplicates are possible),
// calls Reserve, pauses for the confirmation delay and then prints the outcome. A cancelled context
// interrupts the pause; the outcome of the last decision is still printed before Run returns ctx.Err().
func (a *Actor) Run(ctx context.Context) error {
	theatres, seatsPerTheatre := a.grid.Dimensions()

	for a.grid.HasFreeSeats() {
		if err := ctx.Err(); err != nil {
			return err
		}

		request := a.nextRequest(theatres, seatsPerTheatre)

		ok, err := a.grid.Reserve(ctx, request)
		if err != nil {
			return fmt.Errorf("actor %d: %w", a.ID, err)
		}

		a.stats.recordAttempt(ok, request.Size())

		sleepErr := sleep(ctx, uniformDuration(a.rng, a.settings.MinDelay, a.settings.MaxDelay))

		if writeErr := a.printOutcome(ok, request.Theatre); writeErr != nil {
			return fmt.Errorf("actor %d: failed to write outcome: %w", a.ID, writeErr)
		}

		if sleepErr != nil {
			return sleepErr
		}
	}

	return nil
}

func (a *Actor) nextRequest(theatres, seatsPerTheatre int) reservation.Request {
	theatre := a.rng.Intn(theatres)
	size := uniformInt(a.rng, a.settings.MinSeats, a.settings.MaxSeats)

	seats := make([]int, size)
	for i := range seats {
		seats[i] = a.rng.Intn(seatsPerTheatre)
	}

	return reservation.BuildRequest(theatre, seats...)
}

// printOutcome writes the outcome line; theatres are numbered from 1 for humans.
func (a *Actor) printOutcome(ok bool, theatre int) error {
	var err error
	if ok {
		_, err = fmt.Fprintf(a.out, "Actor %d successfully reserved seats in Theatre %d\n", a.ID, theatre+1)
	} else {
		_, err = fmt.Fprintf(a.out, "Actor %d failed to reserve seats in Theatre %d\n", a.ID, theatre+1)
	}

	return err
}

// sleep pauses for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LineWriter serializes writes from many actors so that output lines never interleave.
type LineWriter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewLineWriter wraps out for concurrent use.
func NewLineWriter(out io.Writer) *LineWriter {
	return &LineWriter{out: out}
}

// Write implements io.Writer.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.out.Write(p)
}

// NewActorFactory returns an ActorFactory that builds actors sharing grid, out and stats, each with its
// own stream from source.
func NewActorFactory(grid *reservation.Grid, source *RandomSource, settings Settings, out io.Writer, stats *Stats) ActorFactory {
	return func(id int) Runner {
		return NewActor(id, grid, source.Stream(), settings, out, stats)
	}
}
