package simulation

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource hands out independent random streams, one per actor.
//
// Streams are derived from a master generator in the order they are requested. The supervisor builds
// actors sequentially, so a fixed seed reproduces every actor's choices; the interleaving of actors at
// runtime is still up to the scheduler.
type RandomSource struct {
	mu     sync.Mutex
	master *rand.Rand
	seed   int64
}

// NewRandomSource creates a RandomSource. A seed of 0 picks a time-based seed.
func NewRandomSource(seed int64) *RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &RandomSource{
		master: rand.New(rand.NewSource(seed)), //nolint:gosec // Weak random OK for simulation
		seed:   seed,
	}
}

// Seed returns the effective seed, so a run can be repeated.
func (s *RandomSource) Seed() int64 {
	return s.seed
}

// Stream returns a new generator that is not shared with any other caller.
func (s *RandomSource) Stream() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()

	return rand.New(rand.NewSource(s.master.Int63())) //nolint:gosec // Weak random OK for simulation
}

// uniformInt returns a value in [lo, hi].
func uniformInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}

	return lo + rng.Intn(hi-lo+1)
}

// uniformDuration returns a value in [lo, hi].
func uniformDuration(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}

	return lo + time.Duration(rng.Int63n(int64(hi-lo)+1))
}
