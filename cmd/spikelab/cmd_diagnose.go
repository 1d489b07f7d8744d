package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurokit/spikelab/internal/diagnosis"
	"github.com/neurokit/spikelab/internal/neuron"
)

func newDiagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose <case>",
		Short: "Diagnose a neuron's firing problem",
		Long: `Simulate a case and classify its firing behavior.

The diagnosis names the problem, explains which parameter causes it,
and recommends a fix.

Example:
  spikelab diagnose poor-reset`,
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
			diag, err := diagnosis.Diagnose(c, res)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"diagnosis": diag,
					"result":    res,
				})
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Case:           %s\n", diag.CaseName)
			fmt.Fprintf(out, "Problem:        %s\n", diag.Problem)
			fmt.Fprintf(out, "Severity:       %s\n", diag.Severity)
			fmt.Fprintf(out, "Explanation:    %s\n", diag.Explanation)
			fmt.Fprintf(out, "Recommendation: %s\n", diag.Recommendation)
			fmt.Fprintf(out, "Firing rate:    %.1f%% (%d spikes over %d steps)\n",
				res.FiringRate*100, res.TotalSpikes, res.StepsRequested)

			return nil
		},
	}

	cmd.Flags().Int("steps", 0, "Number of time steps (default from config)")

	return cmd
}
