package simulation

import "errors"

// ErrInvalidSettings is returned when the actor settings describe an impossible request shape or delay.
var ErrInvalidSettings = errors.New("invalid actor settings")

// ErrInvalidActorCount is returned when a supervisor is created without actors.
var ErrInvalidActorCount = errors.New("actor count must be positive")

// ErrWaveLimitReached is returned when the grid still has free seats after the configured number of waves.
var ErrWaveLimitReached = errors.New("wave limit reached before the grid was exhausted")
