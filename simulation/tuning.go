package simulation

// tuning.go - Reference parameters of the seat reservation simulation.
// The command line can override every value; these are the defaults of a plain run.

import "time"

const (
	// GRID DIMENSIONS ...

	// DefaultTheatres defines the number of theatres in the cinema.
	DefaultTheatres = 3

	// DefaultSeatsPerTheatre defines the number of seats in each theatre.
	DefaultSeatsPerTheatre = 20

	// ACTOR POPULATION ...

	// DefaultActorCount defines how many actors compete for seats in every wave.
	DefaultActorCount = 110

	// REQUEST SHAPE ...

	// MinSeatsPerRequest defines the smallest number of seat indices in one request.
	MinSeatsPerRequest = 1

	// MaxSeatsPerRequest defines the largest number of seat indices in one request (inclusive).
	MaxSeatsPerRequest = 3

	// ACTOR PACING ...

	// MinConfirmationDelay defines the shortest pause an actor takes after each reservation decision.
	MinConfirmationDelay = 500 * time.Millisecond

	// MaxConfirmationDelay defines the longest pause (inclusive).
	MaxConfirmationDelay = 1000 * time.Millisecond

	// SUPERVISION ...

	// DefaultMaxWaves defines the wave limit; 0 means respawn until the grid is exhausted.
	DefaultMaxWaves = 0
)
