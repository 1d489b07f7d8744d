package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neurokit/spikelab/internal/export"
	"github.com/neurokit/spikelab/internal/neuron"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <case>",
		Short: "Export a voltage trace to Arrow IPC or CSV",
		Long: `Simulate a case and write its per-step trace to a file for analysis
in external tools.

Example:
  spikelab export normal-control --format arrow -o trace.arrow
  spikelab export poor-reset --format csv -o trace.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, caseStore, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			steps := resolveSteps(cmd, cfg)

			c, err := caseStore.Get(args[0])
			if err != nil {
				return err
			}
			res, err := neuron.Simulate(c, steps)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = fmt.Sprintf("%s.%s", c.Name, format)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer f.Close()

			if err := export.Write(f, res, export.Format(format)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Trace exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().Int("steps", 0, "Number of time steps (default from config)")
	cmd.Flags().String("format", "arrow", "Export format: arrow or csv")
	cmd.Flags().StringP("output", "o", "", "Output file (default <case>.<format>)")

	return cmd
}
