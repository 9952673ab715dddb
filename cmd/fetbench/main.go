package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fetbench/fetbench/internal/config"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "fetbench",
		Short: "Device characterization runner for SPICE and Spectre benches",
		Long: `fetbench drives external circuit simulators (ngspice, Spectre) against
device characterization netlists, captures their console output, and folds
netlist provenance metadata into the produced data files as "# key = value"
headers for the downstream plotting scripts.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for tooling consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Device root directory")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newListCmd(),
		newExtractCmd(),
		newHistoryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("fetbench version %s\n", version)
			}
		},
	}
}

// loadConfig resolves the device root and its configuration for a command.
func loadConfig(cmd *cobra.Command) (string, *config.Config, error) {
	root, _ := cmd.Flags().GetString("root")

	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, err
	}
	if err := cfg.Validate(); err != nil {
		return "", nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return root, cfg, nil
}
