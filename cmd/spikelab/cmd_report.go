package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neurokit/spikelab/internal/report"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a simulation report for all cases",
		Long: `Run every case and write a plain-text report with parameters,
results, diagnosis, and treatment rating per case.

Example:
  spikelab report --output simulation_report.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, caseStore, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			steps := resolveSteps(cmd, cfg)

			entries, err := report.Build(caseStore.All(), steps)
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				return report.Write(cmd.OutOrStdout(), entries)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating report file: %w", err)
			}
			defer f.Close()

			if err := report.Write(f, entries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", output)
			return nil
		},
	}

	cmd.Flags().Int("steps", 0, "Number of time steps (default from config)")
	cmd.Flags().StringP("output", "o", "", "Write report to file instead of stdout")

	return cmd
}
