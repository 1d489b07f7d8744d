package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newCasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cases",
		Short: "List the available investigation cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, caseStore, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			all := caseStore.All()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"cases": all,
					"count": len(all),
				})
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Available cases (%d):\n\n", len(all))
			for _, c := range all {
				fmt.Fprintf(out, "  %s\n", c.Name)
				fmt.Fprintf(out, "    threshold %g mV, reset %g mV, stimulus %g mV/step\n",
					c.ThresholdVoltage, c.ResetVoltage, c.StimulusPerStep)
			}

			return nil
		},
	}
}
