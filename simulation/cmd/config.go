package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/concurrent-seat-reservation-go/simulation"
)

// ErrInvalidConfig is returned when the resolved configuration cannot drive a run.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	flagTheatres      = "theatres"
	flagSeats         = "seats"
	flagActors        = "actors"
	flagMinSeats      = "min-seats"
	flagMaxSeats      = "max-seats"
	flagMinDelay      = "min-delay"
	flagMaxDelay      = "max-delay"
	flagSeed          = "seed"
	flagMaxWaves      = "max-waves"
	flagJSON          = "json"
	flagObservability = "observability-enabled"
	flagLogLevel      = "log-level"
	flagConfig        = "config"
)

// Config holds the configuration of one simulation run.
// Precedence: command-line flags, then the YAML file given with --config, then the defaults from tuning.go.
type Config struct {
	Theatres             int           `yaml:"theatres"`
	Seats                int           `yaml:"seats"`
	Actors               int           `yaml:"actors"`
	MinSeats             int           `yaml:"min_seats"`
	MaxSeats             int           `yaml:"max_seats"`
	MinDelay             time.Duration `yaml:"min_delay"`
	MaxDelay             time.Duration `yaml:"max_delay"`
	Seed                 int64         `yaml:"seed"`
	MaxWaves             int           `yaml:"max_waves"`
	JSON                 bool          `yaml:"json"`
	ObservabilityEnabled bool          `yaml:"observability_enabled"`
	LogLevel             string        `yaml:"log_level"`

	ConfigFile string `yaml:"-"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		Theatres: simulation.DefaultTheatres,
		Seats:    simulation.DefaultSeatsPerTheatre,
		Actors:   simulation.DefaultActorCount,
		MinSeats: simulation.MinSeatsPerRequest,
		MaxSeats: simulation.MaxSeatsPerRequest,
		MinDelay: simulation.MinConfirmationDelay,
		MaxDelay: simulation.MaxConfirmationDelay,
		MaxWaves: simulation.DefaultMaxWaves,
		LogLevel: "info",
	}
}

// registerFlags binds every config field to a flag; the current field values become the flag defaults.
func (c *Config) registerFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.Theatres, flagTheatres, c.Theatres, "Number of theatres")
	fs.IntVar(&c.Seats, flagSeats, c.Seats, "Seats per theatre")
	fs.IntVar(&c.Actors, flagActors, c.Actors, "Number of concurrent actors per wave")
	fs.IntVar(&c.MinSeats, flagMinSeats, c.MinSeats, "Minimum seats per request")
	fs.IntVar(&c.MaxSeats, flagMaxSeats, c.MaxSeats, "Maximum seats per request (inclusive)")
	fs.DurationVar(&c.MinDelay, flagMinDelay, c.MinDelay, "Minimum confirmation delay after each attempt")
	fs.DurationVar(&c.MaxDelay, flagMaxDelay, c.MaxDelay, "Maximum confirmation delay after each attempt (inclusive)")
	fs.Int64Var(&c.Seed, flagSeed, c.Seed, "Random seed, 0 picks a time-based seed")
	fs.IntVar(&c.MaxWaves, flagMaxWaves, c.MaxWaves, "Stop after this many actor waves, 0 means unlimited")
	fs.BoolVar(&c.JSON, flagJSON, c.JSON, "Print the final report as JSON")
	fs.BoolVar(&c.ObservabilityEnabled, flagObservability, c.ObservabilityEnabled, "Enable OpenTelemetry tracing and metrics (exported to stderr)")
	fs.StringVar(&c.LogLevel, flagLogLevel, c.LogLevel, "Log level for grid and supervisor logs: debug, info, warn, error")
	fs.StringVarP(&c.ConfigFile, flagConfig, "c", c.ConfigFile, "Path to a YAML config file")
}

// resolve loads the config file, if any, and re-applies the flags that were set explicitly so that they
// win over file values. It validates the result.
func (c *Config) resolve(fs *pflag.FlagSet) error {
	if c.ConfigFile != "" {
		explicit := make(map[string]string)
		fs.Visit(func(f *pflag.Flag) {
			explicit[f.Name] = f.Value.String()
		})

		if err := c.loadFile(c.ConfigFile); err != nil {
			return err
		}

		for name, value := range explicit {
			if err := fs.Set(name, value); err != nil {
				return fmt.Errorf("failed to re-apply flag --%s: %w", name, err)
			}
		}
	}

	return c.Validate()
}

// loadFile overlays the values found in a YAML file onto c. Keys missing from the file keep their value.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// Validate checks the configuration and returns ErrInvalidConfig wrapped with the first problem found.
func (c Config) Validate() error {
	switch {
	case c.Theatres <= 0:
		return fmt.Errorf("%w: --%s must be positive, got %d", ErrInvalidConfig, flagTheatres, c.Theatres)
	case c.Seats <= 0:
		return fmt.Errorf("%w: --%s must be positive, got %d", ErrInvalidConfig, flagSeats, c.Seats)
	case c.Actors <= 0:
		return fmt.Errorf("%w: --%s must be positive, got %d", ErrInvalidConfig, flagActors, c.Actors)
	case c.MaxWaves < 0:
		return fmt.Errorf("%w: --%s must not be negative, got %d", ErrInvalidConfig, flagMaxWaves, c.MaxWaves)
	}

	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: --%s: %w", ErrInvalidConfig, flagLogLevel, err)
	}

	return nil
}

// Settings returns the actor settings part of the configuration.
func (c Config) Settings() simulation.Settings {
	return simulation.Settings{
		MinSeats: c.MinSeats,
		MaxSeats: c.MaxSeats,
		MinDelay: c.MinDelay,
		MaxDelay: c.MaxDelay,
	}
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))

	return level, err
}
