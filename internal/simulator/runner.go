package simulator

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Runner launches an external simulator against a netlist. The command is
// validated on PATH before use so a missing binary fails fast with a clear
// diagnostic instead of a bare exec error mid-run.
type Runner struct {
	command string
	args    []string
	console io.Writer
	timeout time.Duration
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConsole sets the writer that receives the simulator's live output in
// addition to the log file. Defaults to os.Stdout.
func WithConsole(w io.Writer) RunnerOption {
	return func(r *Runner) { r.console = w }
}

// WithTimeout bounds a single simulator run. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.timeout = d }
}

// NewRunner creates a Runner for the given simulator command. args are
// placed before the netlist filename on the command line (e.g. "-b" for
// ngspice batch mode).
func NewRunner(command string, args []string, opts ...RunnerOption) *Runner {
	r := &Runner{
		command: command,
		args:    args,
		console: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the simulator against netlistPath, streaming combined
// stdout/stderr to both the console and logPath. The subprocess runs with
// its working directory set to the netlist's directory so that it resolves
// the startup configuration file written there.
//
// A missing netlist or command returns an error before anything is
// launched. A non-zero simulator exit returns an error referencing the log
// file; it is never swallowed.
func (r *Runner) Run(ctx context.Context, netlistPath, logPath string) error {
	if _, err := os.Stat(netlistPath); err != nil {
		return fmt.Errorf("netlist %s: %w", netlistPath, err)
	}

	commandPath, err := exec.LookPath(r.command)
	if err != nil {
		return fmt.Errorf("simulator command %q not found on PATH: %w", r.command, err)
	}

	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := append(append([]string{}, r.args...), filepath.Base(netlistPath))
	cmd := exec.CommandContext(ctx, commandPath, args...)
	cmd.Dir = filepath.Dir(netlistPath)

	out := io.MultiWriter(r.console, logFile)
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("simulator %s timed out after %v (see %s)", r.command, r.timeout, logPath)
		}
		return fmt.Errorf("simulator %s failed: %w (see %s)", r.command, err, logPath)
	}

	return nil
}
