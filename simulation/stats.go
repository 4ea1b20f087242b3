package simulation

import (
	"sync/atomic"
	"time"
)

// Stats counts reservation attempts across all actors of a run. The zero value is ready to use and
// all methods are safe for concurrent use. A nil *Stats ignores every record call.
type Stats struct {
	attempts       atomic.Int64
	successes      atomic.Int64
	failures       atomic.Int64
	seatsRequested atomic.Int64
	waves          atomic.Int64
	actorRuns      atomic.Int64
	startedAt      atomic.Int64 // unix nanos
	finishedAt     atomic.Int64 // unix nanos
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Attempts  int64 `json:"attempts"`
	Successes int64 `json:"successes"`
	Failures  int64 `json:"failures"`

	// SeatsRequested sums the sizes of successful requests, duplicate indices included.
	SeatsRequested int64         `json:"seats_requested"`
	Waves          int64         `json:"waves"`
	ActorRuns      int64         `json:"actor_runs"`
	Duration       time.Duration `json:"-"`
	DurationMS     int64         `json:"duration_ms"`
}

func (s *Stats) recordAttempt(ok bool, size int) {
	if s == nil {
		return
	}

	s.attempts.Add(1)

	if !ok {
		s.failures.Add(1)
		return
	}

	s.successes.Add(1)
	s.seatsRequested.Add(int64(size))
}

func (s *Stats) recordWave(actorRuns int) {
	if s == nil {
		return
	}

	s.waves.Add(1)
	s.actorRuns.Add(int64(actorRuns))
}

func (s *Stats) start(now time.Time) {
	if s == nil {
		return
	}

	s.startedAt.CompareAndSwap(0, now.UnixNano())
}

func (s *Stats) finish(now time.Time) {
	if s == nil {
		return
	}

	s.finishedAt.Store(now.UnixNano())
}

// Snapshot returns the current counters. Duration is measured until finish, or until now for a running
// supervisor.
func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}

	var duration time.Duration
	if started := s.startedAt.Load(); started != 0 {
		finished := s.finishedAt.Load()
		if finished == 0 {
			finished = time.Now().UnixNano()
		}

		duration = time.Duration(finished - started)
	}

	return StatsSnapshot{
		Attempts:       s.attempts.Load(),
		Successes:      s.successes.Load(),
		Failures:       s.failures.Load(),
		SeatsRequested: s.seatsRequested.Load(),
		Waves:          s.waves.Load(),
		ActorRuns:      s.actorRuns.Load(),
		Duration:       duration,
		DurationMS:     duration.Milliseconds(),
	}
}
