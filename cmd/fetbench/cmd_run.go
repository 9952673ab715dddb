package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fetbench/fetbench/internal/bench"
	"github.com/fetbench/fetbench/internal/constants"
	"github.com/fetbench/fetbench/internal/logging"
	"github.com/fetbench/fetbench/internal/pipeline"
	"github.com/fetbench/fetbench/internal/store"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <bench>",
		Short: "Run a characterization bench",
		Long: `Run one characterization bench end to end: write the simulator startup
file, invoke the simulator against the bench's netlist, and fold the
netlist's provenance metadata into the produced data file.

Examples:
  fetbench run gmId                       # NFET gm/Id sweep via ngspice
  fetbench run av                         # diode-connected output resistance
  fetbench run nanopore-iv                # Spectre I-V testbench
  fetbench run nanopore-iv --command spectre  # site without the cad-spec wrapper`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			command, _ := cmd.Flags().GetString("command")
			noHistory, _ := cmd.Flags().GetBool("no-history")
			jsonOut, _ := cmd.Flags().GetBool("json")

			benches := bench.Merge(bench.Builtins(), cfg.Benches)
			b, ok := bench.Find(benches, args[0])
			if !ok {
				return fmt.Errorf("unknown bench %q (run 'fetbench list' to see available benches)", args[0])
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

			resultsDir := cfg.ResultsDir
			if !filepath.IsAbs(resultsDir) {
				resultsDir = filepath.Join(root, resultsDir)
			}

			trace := logging.NewRunLogger(resultsDir, cfg.Logging.Level)
			defer trace.Close()

			p := &pipeline.Pipeline{
				Root:       root,
				ResultsDir: cfg.ResultsDir,
				Timeout:    time.Duration(cfg.Simulator.Timeout),
				Log:        logger,
				Trace:      trace,
			}

			if !noHistory {
				s, err := store.Open(filepath.Join(resultsDir, constants.HistoryDBName))
				if err != nil {
					logger.Warn("run history disabled", "error", err)
				} else {
					defer s.Close()
					p.Store = s
				}
			}

			if command == "" {
				command = cfg.Simulator.Command(b.Simulator)
				if b.Command != "" {
					command = b.Command
				}
			}

			res, err := p.Run(cmd.Context(), b, command)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"bench":     res.Bench,
					"outcome":   res.Outcome.String(),
					"data_file": res.DataFile,
					"log_file":  res.LogFile,
				})
			}

			switch res.DataFile {
			case "":
				fmt.Printf("Bench %s finished (%s); log: %s\n", res.Bench, res.Outcome, res.LogFile)
			default:
				fmt.Printf("Bench %s finished; data: %s\n", res.Bench, res.DataFile)
			}
			return nil
		},
	}

	cmd.Flags().String("command", "", "Override the simulator executable")
	cmd.Flags().Bool("no-history", false, "Skip recording the run in the history database")
	return cmd
}
