package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/neurokit/spikelab/internal/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show archived simulation runs",
		Long: `List archived runs, or show the full trace and diagnosis of one run
by its ID. Runs are archived automatically when archiving is enabled
in the configuration.

Example:
  spikelab history
  spikelab history 12`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			rs, err := store.NewSQLiteRunStore(root)
			if err != nil {
				return fmt.Errorf("opening run archive: %w", err)
			}
			defer rs.Close()

			jsonOut, _ := cmd.Flags().GetBool("json")

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid run ID %q", args[0])
				}
				run, err := rs.GetRun(context.Background(), id)
				if err != nil {
					return err
				}

				if jsonOut {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(run)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %d (%s)\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Case:     %s\n", run.CaseName)
				fmt.Fprintf(out, "Steps:    %d\n", run.Steps)
				fmt.Fprintf(out, "Spikes:   %d (rate %.1f%%)\n", run.Spikes, run.Rate*100)
				if run.Diagnosis != nil {
					fmt.Fprintf(out, "Problem:  %s (%s)\n", run.Diagnosis.Problem, run.Diagnosis.Severity)
				}
				return nil
			}

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := rs.ListRuns(context.Background(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"runs":  runs,
					"count": len(runs),
				})
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No archived runs yet.")
				return nil
			}
			for _, run := range runs {
				fmt.Fprintf(out, "%4d  %s  %-16s  %2d spikes  %5.1f%%  %s\n",
					run.ID, run.CreatedAt.Format("2006-01-02 15:04"),
					run.CaseName, run.Spikes, run.Rate*100, run.Kind)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 for all)")

	return cmd
}
