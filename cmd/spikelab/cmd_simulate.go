package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurokit/spikelab/internal/diagnosis"
	"github.com/neurokit/spikelab/internal/logging"
	"github.com/neurokit/spikelab/internal/neuron"
	"github.com/neurokit/spikelab/internal/store"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [case]",
		Short: "Run a neuron simulation",
		Long: `Run a discrete-time simulation for one case, for all cases, or for
explicit parameters given as flags.

Example:
  spikelab simulate normal-control --steps 20
  spikelab simulate --all
  spikelab simulate --threshold -55 --stimulus 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, caseStore, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			steps := resolveSteps(cmd, cfg)
			all, _ := cmd.Flags().GetBool("all")

			var configs []neuron.Config
			switch {
			case all:
				configs = caseStore.All()
			case len(args) == 1:
				c, err := caseStore.Get(args[0])
				if err != nil {
					return err
				}
				configs = []neuron.Config{c}
			case paramFlagsChanged(cmd):
				configs = []neuron.Config{paramConfig(cmd)}
			default:
				return fmt.Errorf("specify a case name, --all, or explicit parameter flags")
			}

			traceLog := logging.NewStepTraceLogger(filepath.Join(root, ".spikelab"), cfg.Logging.Level)
			defer traceLog.Close()

			var runStore store.RunStore
			if cfg.Archive.Enabled {
				rs, err := store.NewSQLiteRunStore(root)
				if err != nil {
					return fmt.Errorf("opening run archive: %w", err)
				}
				defer rs.Close()
				runStore = rs
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			for _, c := range configs {
				res, err := neuron.Simulate(c, steps)
				if err != nil {
					return fmt.Errorf("simulating %s: %w", c.Name, err)
				}
				slog.Debug("run complete", "case", c.Name, "steps", steps, "spikes", res.TotalSpikes)
				traceLog.LogRun(res)

				var runID int64
				if runStore != nil {
					diag, err := diagnosis.Diagnose(c, res)
					if err != nil {
						return err
					}
					runID, err = runStore.SaveRun(context.Background(), res, diag)
					if err != nil {
						return fmt.Errorf("archiving run: %w", err)
					}
				}

				if jsonOut {
					out := map[string]interface{}{"result": res}
					if runID != 0 {
						out["run_id"] = runID
					}
					json.NewEncoder(cmd.OutOrStdout()).Encode(out)
				} else {
					printRun(cmd, res)
				}
			}

			return nil
		},
	}

	cmd.Flags().Int("steps", 0, "Number of time steps (default from config)")
	cmd.Flags().Bool("all", false, "Run every case")
	addParamFlags(cmd)

	return cmd
}

// addParamFlags registers the explicit neuron parameter flags on a
// command, defaulted to the healthy control values.
func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("threshold", -55, "Threshold voltage in mV")
	cmd.Flags().Float64("reset", -70, "Reset voltage in mV")
	cmd.Flags().Float64("stimulus", 5, "Stimulus per step in mV")
	cmd.Flags().Float64("initial", -70, "Initial voltage in mV")
	cmd.Flags().Float64("peak", 30, "Spike peak voltage in mV")
}

// paramFlagsChanged reports whether the user set any explicit
// parameter flag.
func paramFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"threshold", "reset", "stimulus", "initial", "peak"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// paramConfig builds a config from the explicit parameter flags.
func paramConfig(cmd *cobra.Command) neuron.Config {
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	reset, _ := cmd.Flags().GetFloat64("reset")
	stimulus, _ := cmd.Flags().GetFloat64("stimulus")
	initial, _ := cmd.Flags().GetFloat64("initial")
	peak, _ := cmd.Flags().GetFloat64("peak")
	return neuron.Config{
		Name:             "custom",
		InitialVoltage:   initial,
		ThresholdVoltage: threshold,
		SpikePeakVoltage: peak,
		ResetVoltage:     reset,
		StimulusPerStep:  stimulus,
	}
}

// printRun writes the step-by-step trace and summary for one run.
func printRun(cmd *cobra.Command, res *neuron.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Simulating: %s\n", res.Name)
	fmt.Fprintln(out, strings.Repeat("-", 40))

	for _, ev := range res.StepLog {
		marker := " "
		if ev.Kind == neuron.EventSpike {
			marker = "*"
		}
		fmt.Fprintf(out, "%s step %2d: %s\n", marker, ev.Step+1, ev.Message)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total spikes: %d\n", res.TotalSpikes)
	fmt.Fprintf(out, "Firing rate:  %.1f%%\n", res.FiringRate*100)
	if res.MeanISI > 0 {
		fmt.Fprintf(out, "Mean ISI:     %.1f steps\n", res.MeanISI)
	}
	fmt.Fprintln(out)
}
