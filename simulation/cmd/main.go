// Command seat-reservation runs the seat reservation simulation: a population of actors competes for the seats of a
// few theatres until every seat is taken, then the final seat map is printed.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation"
	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation/oteladapters"
	"github.com/AntonStoeckl/concurrent-seat-reservation-go/simulation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("%s Simulation failed: %v", StatusIcon("error"), err)
	}
}

func newRootCommand() *cobra.Command {
	cfg := DefaultConfig()

	cmd := &cobra.Command{
		Use:   "seat-reservation",
		Short: "Simulate concurrent actors reserving cinema seats until all theatres are full",
		Long: "Starts a population of actors that repeatedly try to reserve a few random seats in a random theatre.\n" +
			"Each attempt prints one line; when every seat is taken the final seat map is printed,\n" +
			"one line per theatre with 1 for a reserved and 0 for a free seat.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.resolve(cmd.Flags()); err != nil {
				return err
			}

			return run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cfg.registerFlags(cmd.Flags())

	return cmd
}

// run executes one simulation. Actor lines and the final report go to stdout; logs, spans and metric
// totals go to stderr. A cancelled context still prints the partial grid and is not an error.
func run(ctx context.Context, cfg Config, stdout, stderr io.Writer) error {
	runID := uuid.NewString()

	log.Printf("%s %s", Success("🎭"), Success("Starting seat reservation simulation"))
	logConfiguration(cfg, runID)

	level, err := cfg.Level()
	if err != nil {
		return err
	}

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	)
	gridOptions := []reservation.Option{reservation.WithLogger(logger)}

	if cfg.ObservabilityEnabled {
		providers, obsErr := newObservabilityProviders(ctx, runID, stderr)
		if obsErr != nil {
			return fmt.Errorf("failed to set up observability: %w", obsErr)
		}

		defer func() {
			if shutdownErr := providers.Shutdown(); shutdownErr != nil {
				log.Printf("%s Observability shutdown failed: %v", StatusIcon("warning"), shutdownErr)
			}
		}()

		defer func() {
			if totalsErr := providers.logTotals(context.WithoutCancel(ctx)); totalsErr != nil {
				log.Printf("%s %v", StatusIcon("warning"), totalsErr)
			}
		}()

		runCtx, span := providers.startRunSpan(ctx, runID)
		ctx = runCtx
		defer span.End()

		gridOptions = append(gridOptions, providers.gridOptions()...)
		log.Printf("%s OpenTelemetry enabled: spans and metric totals go to stderr", StatusIcon("trace"))
	}

	grid, err := reservation.NewGrid(cfg.Theatres, cfg.Seats, gridOptions...)
	if err != nil {
		return fmt.Errorf("failed to create grid: %w", err)
	}

	source := simulation.NewRandomSource(cfg.Seed)
	stats := &simulation.Stats{}
	out := simulation.NewLineWriter(stdout)

	supervisor, err := simulation.NewSupervisor(grid, cfg.Actors,
		simulation.NewActorFactory(grid, source, cfg.Settings(), out, stats),
		simulation.WithMaxWaves(cfg.MaxWaves),
		simulation.WithStats(stats),
		simulation.WithSupervisorLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}

	log.Printf("🚀 Simulation starting (seed %d), press Ctrl+C to stop...", source.Seed())

	runErr := supervisor.Run(ctx)

	switch {
	case runErr == nil:
		log.Printf("%s All %d seats reserved", StatusIcon("success"), grid.Capacity())
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		log.Printf("📢 Simulation interrupted, printing the partial seat map")
		runErr = nil
	case errors.Is(runErr, simulation.ErrWaveLimitReached):
		log.Printf("%s %v", StatusIcon("warning"), runErr)
	default:
		return fmt.Errorf("simulation failed: %w", runErr)
	}

	report := simulation.Report{
		RunID:    runID,
		Seed:     source.Seed(),
		Snapshot: grid.Snapshot(),
		Stats:    stats.Snapshot(),
	}

	if err = writeReport(report, cfg.JSON, out); err != nil {
		return err
	}

	logStats(report)

	return runErr
}

func writeReport(report simulation.Report, asJSON bool, out io.Writer) error {
	if asJSON {
		return report.WriteJSON(out)
	}

	return report.WriteText(out)
}

func logConfiguration(cfg Config, runID string) {
	log.Printf("%s %s", StatusIcon("stats"), Header("Simulation Configuration:"))
	log.Printf("  - Run ID: %s", Info(runID))
	log.Printf("  - Theatres: %d x %d seats", cfg.Theatres, cfg.Seats)
	log.Printf("  - Actors: %d per wave", cfg.Actors)
	log.Printf("  - Request size: %d-%d seats", cfg.MinSeats, cfg.MaxSeats)
	log.Printf("  - Confirmation delay: %s-%s", cfg.MinDelay, cfg.MaxDelay)

	if cfg.MaxWaves > 0 {
		log.Printf("  - Wave limit: %d", cfg.MaxWaves)
	}
}

func logStats(report simulation.Report) {
	stats := report.Stats

	log.Printf("%s", Separator("-", 48))
	log.Printf("%s %s", StatusIcon("stats"), Header("Run Statistics:"))
	log.Printf("  - Waves: %d (%d actor runs)", stats.Waves, stats.ActorRuns)
	log.Printf("  - Attempts: %d (%s succeeded, %s failed)",
		stats.Attempts, Success(fmt.Sprint(stats.Successes)), Warning(fmt.Sprint(stats.Failures)))
	log.Printf("  - %s Seats reserved: %d of %d", StatusIcon("seats"),
		report.Snapshot.ReservedSeats(), report.Snapshot.TotalSeats())
	log.Printf("  - Duration: %s", stats.Duration)
}
