// Package pipeline runs one characterization bench end to end: write the
// simulator startup file, extract provenance metadata from the netlist,
// invoke the simulator, materialize the results file, and record the run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fetbench/fetbench/internal/bench"
	"github.com/fetbench/fetbench/internal/logging"
	"github.com/fetbench/fetbench/internal/netlist"
	"github.com/fetbench/fetbench/internal/pathutil"
	"github.com/fetbench/fetbench/internal/results"
	"github.com/fetbench/fetbench/internal/simulator"
	"github.com/fetbench/fetbench/internal/store"
)

// DateFormat is the provenance header timestamp layout.
const DateFormat = "2006-01-02 15:04:05"

// Pipeline holds the shared pieces of a characterization run.
type Pipeline struct {
	// Root is the device root directory; bench netlist paths and the
	// results dir resolve against it.
	Root string

	// ResultsDir is the output directory (absolute, or relative to Root).
	ResultsDir string

	// Timeout bounds a single simulator run. Zero means unbounded.
	Timeout time.Duration

	// Log is the operational logger. Must not be nil.
	Log *slog.Logger

	// Trace records structured run events. Nil disables tracing.
	Trace *logging.RunLogger

	// Store records run history. Nil disables recording.
	Store *store.RunStore

	// Console receives live simulator output alongside the log file.
	// Defaults to os.Stdout.
	Console io.Writer

	// Now stamps the provenance header; overridable in tests.
	Now func() time.Time
}

// RunResult reports what a run produced.
type RunResult struct {
	Bench    string
	Outcome  results.Outcome
	DataFile string
	LogFile  string
	Meta     netlist.Metadata
	Duration time.Duration
}

// Run executes the bench. command overrides the simulator executable; empty
// means the bench default. Simulator failure is returned as an error after
// the log file is written and the run is recorded; a missing raw data file
// after a successful run is not an error, it surfaces as
// OutcomeSkippedNoData in the result.
func (p *Pipeline) Run(ctx context.Context, b bench.Bench, command string) (*RunResult, error) {
	if command == "" {
		command = b.DefaultCommand()
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	console := p.Console
	if console == nil {
		console = os.Stdout
	}

	netlistPath := filepath.Join(p.Root, b.Netlist)
	resultsDir := p.ResultsDir
	if !filepath.IsAbs(resultsDir) {
		resultsDir = filepath.Join(p.Root, resultsDir)
	}
	categoryDir := filepath.Join(resultsDir, b.Category)
	if err := pathutil.ValidatePath(categoryDir, []string{resultsDir}); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(categoryDir, 0755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	// Reading the netlist up front both fails fast on a missing input and
	// guarantees the header metadata comes from the same bytes the
	// simulator is about to run.
	text, err := os.ReadFile(netlistPath)
	if err != nil {
		return nil, fmt.Errorf("netlist %s: %w", netlistPath, err)
	}
	meta := netlist.Extract(string(text))
	for _, key := range meta.Missing() {
		p.Log.Warn("metadata field not found in netlist", "bench", b.Name, "field", key)
	}

	if b.NeedsSpiceInit() {
		if err := simulator.WriteSpiceInit(filepath.Dir(netlistPath)); err != nil {
			return nil, err
		}
		p.Log.Debug("wrote simulator startup file", "dir", filepath.Dir(netlistPath))
	}

	base := filepath.Base(b.Netlist)
	logPath := filepath.Join(categoryDir, trimExt(base)+".log")

	startedAt := now()
	p.Log.Info("running simulator", "bench", b.Name, "command", command, "netlist", b.Netlist)
	p.Trace.Log(map[string]any{
		"event": "run_start", "bench": b.Name, "command": command, "netlist": b.Netlist,
	})

	runner := simulator.NewRunner(command, b.BatchArgs(),
		simulator.WithConsole(console), simulator.WithTimeout(p.Timeout))
	runErr := runner.Run(ctx, netlistPath, logPath)
	duration := now().Sub(startedAt)

	res := &RunResult{
		Bench:    b.Name,
		Outcome:  results.OutcomeSkippedNoData,
		LogFile:  logPath,
		Meta:     meta,
		Duration: duration,
	}

	if runErr != nil {
		p.record(ctx, b, command, startedAt, duration, "simulator-failed", "", logPath, meta)
		p.Trace.Log(map[string]any{"event": "run_failed", "bench": b.Name, "error": runErr.Error()})
		return res, runErr
	}

	if b.RawData != "" {
		rawPath := filepath.Join(filepath.Dir(netlistPath), b.RawData)
		finalPath := filepath.Join(categoryDir, b.RawData)
		header := buildHeader(b, meta, base, startedAt)

		outcome, err := results.Materialize(rawPath, finalPath, header)
		if err != nil {
			return nil, err
		}
		res.Outcome = outcome
		if outcome == results.OutcomeWritten {
			res.DataFile = finalPath
			p.Log.Info("results written", "bench", b.Name, "file", finalPath)
		} else {
			p.Log.Warn("simulator produced no data file", "bench", b.Name, "expected", rawPath)
		}
	}

	p.record(ctx, b, command, startedAt, duration, res.Outcome.String(), res.DataFile, logPath, meta)
	p.Trace.Log(map[string]any{
		"event": "run_done", "bench": b.Name, "outcome": res.Outcome.String(),
		"duration_ms": duration.Milliseconds(),
	})

	return res, nil
}

// buildHeader assembles the provenance header in the fixed field order the
// plotting scripts expect.
func buildHeader(b bench.Bench, meta netlist.Metadata, source string, at time.Time) []results.HeaderField {
	fields := []results.HeaderField{
		{Key: "source", Value: source},
		{Key: "date", Value: at.Format(DateFormat)},
		{Key: "device", Value: meta.Device.Value},
		{Key: "W_um", Value: meta.Width.Value},
		{Key: "L_um", Value: meta.Length.Value},
		{Key: "Id_uA", Value: meta.BiasUA.Value},
		{Key: "corner", Value: meta.Corner.Value},
	}
	if b.Topology != "" {
		fields = append(fields, results.HeaderField{Key: "topology", Value: b.Topology})
	}
	return fields
}

func (p *Pipeline) record(ctx context.Context, b bench.Bench, command string, startedAt time.Time,
	duration time.Duration, outcome, dataFile, logFile string, meta netlist.Metadata) {
	if p.Store == nil {
		return
	}

	_, err := p.Store.Record(ctx, store.RunRecord{
		Bench:     b.Name,
		Netlist:   b.Netlist,
		Command:   command,
		StartedAt: startedAt,
		Duration:  duration,
		Outcome:   outcome,
		DataFile:  dataFile,
		LogFile:   logFile,
		Device:    meta.Device.Value,
		WidthUM:   meta.Width.Value,
		LengthUM:  meta.Length.Value,
		BiasUA:    meta.BiasUA.Value,
		Corner:    meta.Corner.Value,
	})
	if err != nil {
		// History is auxiliary; a recording failure must not fail the run.
		p.Log.Warn("recording run history failed", "bench", b.Name, "error", err)
	}
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
