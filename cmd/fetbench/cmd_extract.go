package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fetbench/fetbench/internal/netlist"
	"github.com/spf13/cobra"
)

// extractOutput is the JSON shape of one extracted metadata field.
type extractOutput struct {
	Value string `json:"value"`
	Found bool   `json:"found"`
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <netlist>",
		Short: "Extract provenance metadata from a netlist",
		Long: `Extract the provenance metadata fields (device, W, L, bias current,
corner) from a netlist without running a simulation. Useful for checking
what the results header of a run would contain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("netlist %s: %w", args[0], err)
			}

			meta := netlist.Extract(string(data))

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]extractOutput{
					"device": {meta.Device.Value, meta.Device.Found},
					"W_um":   {meta.Width.Value, meta.Width.Found},
					"L_um":   {meta.Length.Value, meta.Length.Found},
					"Id_uA":  {meta.BiasUA.Value, meta.BiasUA.Found},
					"corner": {meta.Corner.Value, meta.Corner.Found},
				})
			}

			printField(cmd, "device", meta.Device)
			printField(cmd, "W_um", meta.Width)
			printField(cmd, "L_um", meta.Length)
			printField(cmd, "Id_uA", meta.BiasUA)
			printField(cmd, "corner", meta.Corner)

			if missing := meta.Missing(); len(missing) > 0 {
				fmt.Fprintf(os.Stderr, "warning: %d field(s) not found: %v\n", len(missing), missing)
			}
			return nil
		},
	}
}

func printField(cmd *cobra.Command, key string, f netlist.Field) {
	if f.Found {
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, f.Value)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s = (not found)\n", key)
	}
}
