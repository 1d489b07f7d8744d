package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neurokit/spikelab/internal/neuron"
	"github.com/neurokit/spikelab/internal/visualization"
)

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [case...]",
		Short: "Render voltage traces as a chart",
		Long: `Simulate one or more cases and render their voltage traces to an
SVG or PNG file. With no arguments every case is plotted. --compare
renders a spike count bar chart instead.

Example:
  spikelab plot normal-control poor-reset -o traces.svg
  spikelab plot --compare -o spikes.png --format png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, caseStore, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			steps := resolveSteps(cmd, cfg)

			names := args
			if len(names) == 0 {
				names = caseStore.Names()
			}

			results := make([]*neuron.Result, 0, len(names))
			for _, name := range names {
				c, err := caseStore.Get(name)
				if err != nil {
					return err
				}
				res, err := neuron.Simulate(c, steps)
				if err != nil {
					return fmt.Errorf("simulating %s: %w", name, err)
				}
				results = append(results, res)
			}

			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			compare, _ := cmd.Flags().GetBool("compare")

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating chart file: %w", err)
			}
			defer f.Close()

			if compare {
				err = visualization.RenderSpikeComparison(f, results, visualization.Format(format))
			} else {
				err = visualization.RenderTrace(f, results, visualization.Format(format))
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Chart saved to %s\n", output)
			return nil
		},
	}

	cmd.Flags().Int("steps", 0, "Number of time steps (default from config)")
	cmd.Flags().String("format", "svg", "Chart format: svg or png")
	cmd.Flags().StringP("output", "o", "traces.svg", "Output file")
	cmd.Flags().Bool("compare", false, "Render a spike count bar chart instead of traces")

	return cmd
}
