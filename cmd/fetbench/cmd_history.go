package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fetbench/fetbench/internal/constants"
	"github.com/fetbench/fetbench/internal/store"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent characterization runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			jsonOut, _ := cmd.Flags().GetBool("json")

			resultsDir := cfg.ResultsDir
			if !filepath.IsAbs(resultsDir) {
				resultsDir = filepath.Join(root, resultsDir)
			}
			dbPath := filepath.Join(resultsDir, constants.HistoryDBName)
			if _, err := os.Stat(dbPath); err != nil {
				return fmt.Errorf("no run history at %s (run a bench first)", dbPath)
			}

			s, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			recs, err := s.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(recs)
			}

			for _, r := range recs {
				fmt.Printf("%s  %-12s %-16s %-8s %s\n",
					r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					r.Bench, r.Outcome, r.Corner, r.DataFile)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to show")
	return cmd
}
