package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fetbench/fetbench/internal/bench"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available characterization benches",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			benches := bench.Merge(bench.Builtins(), cfg.Benches)

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(benches)
			}

			for _, b := range benches {
				fmt.Printf("%-14s %-8s %s\n", b.Name, b.Simulator, b.Netlist)
			}
			return nil
		},
	}
}
