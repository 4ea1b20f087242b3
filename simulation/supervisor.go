package simulation

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation"
)

const (
	logMsgWaveStarted   = "actor wave started"
	logMsgWaveFinished  = "actor wave finished"
	logMsgGridExhausted = "grid exhausted, supervision finished"
	logAttrWave         = "wave"
	logAttrActors       = "actors"
	logAttrRemaining    = "seats_remaining"
)

// Runner is anything the supervisor can run as an actor.
type Runner interface {
	Run(ctx context.Context) error
}

// ActorFactory builds the actor for a slot. It is called once per slot and wave, always from the
// supervisor's goroutine, and receives the slot's stable ID.
type ActorFactory func(id int) Runner

// GridProbe is the part of the grid the supervisor needs to decide whether another wave is required.
type GridProbe interface {
	IsExhausted() bool
	Remaining() int
}

// actorHandle tracks one actor slot across waves.
type actorHandle struct {
	id      int
	running atomic.Bool
	starts  int
}

func (h *actorHandle) launch(ctx context.Context, g *errgroup.Group, runner Runner) {
	h.running.Store(true)
	h.starts++

	g.Go(func() error {
		defer h.running.Store(false)
		return runner.Run(ctx)
	})
}

// Supervisor starts a fixed population of actors and respawns the finished ones in waves until the grid
// is exhausted.
type Supervisor struct {
	grid     GridProbe
	factory  ActorFactory
	handles  []*actorHandle
	maxWaves int
	stats    *Stats
	logger   reservation.Logger
}

// SupervisorOption configures a Supervisor.
type SupervisorOption func(*Supervisor)

// WithMaxWaves limits the number of waves; 0 means unlimited.
func WithMaxWaves(maxWaves int) SupervisorOption {
	return func(s *Supervisor) {
		s.maxWaves = maxWaves
	}
}

// WithStats makes the supervisor record waves and the run duration into stats.
func WithStats(stats *Stats) SupervisorOption {
	return func(s *Supervisor) {
		s.stats = stats
	}
}

// WithSupervisorLogger sets a logger for wave progress at debug level and exhaustion at info level.
func WithSupervisorLogger(logger reservation.Logger) SupervisorOption {
	return func(s *Supervisor) {
		s.logger = logger
	}
}

// NewSupervisor creates a supervisor for actorCount slots with IDs 0..actorCount-1.
func NewSupervisor(grid GridProbe, actorCount int, factory ActorFactory, options ...SupervisorOption) (*Supervisor, error) {
	if actorCount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidActorCount, actorCount)
	}

	s := &Supervisor{
		grid:    grid,
		factory: factory,
		handles: make([]*actorHandle, actorCount),
	}

	for i := range s.handles {
		s.handles[i] = &actorHandle{id: i}
	}

	for _, option := range options {
		option(s)
	}

	return s, nil
}

// Run starts all actors, waits for the wave to finish and repeats with fresh actors in the slots that
// are no longer running, until the grid is exhausted.
//
// Returns nil once the grid is exhausted, ctx.Err() if the run was cancelled, ErrWaveLimitReached if the
// wave limit was hit first, or the first error returned by an actor. An actor error cancels the other
// actors of its wave.
func (s *Supervisor) Run(ctx context.Context) error {
	s.stats.start(time.Now())
	defer func() { s.stats.finish(time.Now()) }()

	for wave := 1; ; wave++ {
		if s.maxWaves > 0 && wave > s.maxWaves {
			return fmt.Errorf("%w: %d waves, %d seats remaining", ErrWaveLimitReached, s.maxWaves, s.grid.Remaining())
		}

		if err := s.runWave(ctx, wave); err != nil {
			return err
		}

		if s.grid.IsExhausted() {
			s.logInfo(logMsgGridExhausted, logAttrWave, wave)
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (s *Supervisor) runWave(ctx context.Context, wave int) error {
	g, waveCtx := errgroup.WithContext(ctx)

	started := 0
	for _, handle := range s.handles {
		if handle.running.Load() {
			continue
		}

		handle.launch(waveCtx, g, s.factory(handle.id))
		started++
	}

	s.stats.recordWave(started)
	s.logDebug(logMsgWaveStarted, logAttrWave, wave, logAttrActors, started)

	err := g.Wait()

	s.logDebug(logMsgWaveFinished, logAttrWave, wave, logAttrRemaining, s.grid.Remaining())

	return err
}

// Starts returns how often the actor slot with the given ID was started.
func (s *Supervisor) Starts(id int) int {
	if id < 0 || id >= len(s.handles) {
		return 0
	}

	return s.handles[id].starts
}

func (s *Supervisor) logDebug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Supervisor) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
