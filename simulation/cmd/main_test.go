package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/concurrent-seat-reservation-go/simulation"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Theatres = 2
	cfg.Seats = 6
	cfg.Actors = 8
	cfg.MinDelay = 0
	cfg.MaxDelay = time.Millisecond
	cfg.Seed = 11
	cfg.LogLevel = "warn"

	return cfg
}

func Test_Run_PrintsOutcomesAndFullSeatMap(t *testing.T) {
	var stdout, stderr bytes.Buffer

	require.NoError(t, run(context.Background(), smallConfig(), &stdout, &stderr))

	output := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(output), 3)

	report := output[len(output)-2:]
	assert.Equal(t, "Theatre 1: 1 1 1 1 1 1 ", report[0])
	assert.Equal(t, "Theatre 2: 1 1 1 1 1 1 ", report[1])

	for _, line := range output[:len(output)-2] {
		assert.Regexp(t, `^Actor [0-7] (successfully reserved|failed to reserve) seats in Theatre [12]$`, line)
	}
}

func Test_Run_JSONReport(t *testing.T) {
	cfg := smallConfig()
	cfg.JSON = true

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &stdout, &stderr))

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")

	var report struct {
		RunID     string  `json:"run_id"`
		Seed      int64   `json:"seed"`
		Theatres  [][]int `json:"theatres"`
		Remaining int     `json:"remaining"`
		Waves     int     `json:"waves"`
	}
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(lines[len(lines)-1], &report))

	assert.Len(t, report.RunID, 36)
	assert.Equal(t, int64(11), report.Seed)
	assert.Equal(t, [][]int{{1, 1, 1, 1, 1, 1}, {1, 1, 1, 1, 1, 1}}, report.Theatres)
	assert.Equal(t, 0, report.Remaining)
	assert.GreaterOrEqual(t, report.Waves, 1)
}

func Test_Run_WithObservability_ExportsSpansAndLogsToStderr(t *testing.T) {
	cfg := smallConfig()
	cfg.ObservabilityEnabled = true
	cfg.LogLevel = "debug"

	otelLogs := installRecordingLoggerProvider(t)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &stdout, simulation.NewLineWriter(&stderr)))

	diagnostics := stderr.String()
	assert.Contains(t, diagnostics, `"Name": "reservation.reserve"`)
	assert.Contains(t, diagnostics, `"Name": "simulation.run"`)
	assert.Contains(t, diagnostics, "seats reserved")
	assert.Contains(t, diagnostics, "grid exhausted, no free seats left")
	assert.NotContains(t, stdout.String(), "reservation.reserve")

	traced := otelLogs.tracedBodies()
	assert.Contains(t, traced, "seats reserved", "reserve logs reach the OpenTelemetry bridge inside the reserve span")
	assert.Contains(t, traced, "grid exhausted, no free seats left")
}

func Test_Run_WithoutObservability_LeavesOTelLogsUntouched(t *testing.T) {
	otelLogs := installRecordingLoggerProvider(t)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), smallConfig(), &stdout, &stderr))

	assert.Empty(t, otelLogs.tracedBodies())
}

func Test_Run_CancelledContextPrintsPartialSeatMap(t *testing.T) {
	cfg := smallConfig()
	cfg.Seats = 50
	cfg.MinDelay = time.Hour
	cfg.MaxDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(ctx, cfg, &stdout, &stderr))

	assert.Contains(t, stdout.String(), "Theatre 1: ")
	assert.Contains(t, stdout.String(), "Theatre 2: ")
	assert.Contains(t, stdout.String(), " 0 ", "some seats stay free when the run is interrupted")
}

func Test_RootCommand_RejectsInvalidFlags(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--theatres=0"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.ErrorIs(t, cmd.Execute(), ErrInvalidConfig)
}

func Test_RootCommand_RejectsPositionalArguments(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}
