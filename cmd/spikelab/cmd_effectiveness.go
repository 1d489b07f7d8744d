package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurokit/spikelab/internal/diagnosis"
	"github.com/neurokit/spikelab/internal/neuron"
)

func newEffectivenessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "effectiveness",
		Short: "Evaluate candidate treatment parameters",
		Long: `Simulate a neuron with the given parameters and rate how close the
outcome is to healthy firing.

Example:
  spikelab effectiveness --threshold -55 --reset -70 --stimulus 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, _, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			steps := resolveSteps(cmd, cfg)

			c := paramConfig(cmd)
			c.Name = "treatment"

			res, err := neuron.Simulate(c, steps)
			if err != nil {
				return err
			}
			tr := diagnosis.EvaluateTreatment(c, res)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(tr)
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Effectiveness:       %s\n", tr.Effectiveness)
			fmt.Fprintf(out, "Firing rate:         %.1f%%\n", tr.FiringRate*100)
			fmt.Fprintf(out, "Parameters in range: %d/3\n", tr.ParametersInRange)

			return nil
		},
	}

	addParamFlags(cmd)
	cmd.Flags().Int("steps", 0, "Number of time steps (default from config)")

	return cmd
}
