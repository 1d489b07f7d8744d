package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/neurokit/spikelab/internal/cases"
	"github.com/neurokit/spikelab/internal/config"
	"github.com/neurokit/spikelab/internal/logging"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "spikelab",
		Short: "Spikelab - integrate-and-fire neuron simulator",
		Long: `spikelab simulates integrate-and-fire neurons over discrete time
steps and diagnoses their firing behavior.

Each investigation case is a neuron with one faulty parameter. Run a
case, inspect its voltage trace and spikes, and the rule engine will
identify the problem and recommend a fix.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newSimulateCmd(),
		newDiagnoseCmd(),
		newCasesCmd(),
		newEffectivenessCmd(),
		newReportCmd(),
		newPlotCmd(),
		newExportCmd(),
		newHistoryCmd(),
		newViewerCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "spikelab version %s\n", version)
			}
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a spikelab workspace in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			labDir := filepath.Join(root, ".spikelab")
			if err := os.MkdirAll(labDir, 0755); err != nil {
				return fmt.Errorf("failed to create .spikelab directory: %w", err)
			}

			configPath := filepath.Join(labDir, "config.yaml")
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				content := fmt.Sprintf(`# Spikelab configuration
# created: %s
simulation:
  steps: 20
cases:
  dir: cases
archive:
  enabled: true
logging:
  level: info
`, time.Now().Format(time.RFC3339))
				if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
					return fmt.Errorf("failed to create config.yaml: %w", err)
				}
			}

			casesDir := filepath.Join(root, "cases")
			if err := os.MkdirAll(casesDir, 0755); err != nil {
				return fmt.Errorf("failed to create cases directory: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
					"status": "initialized",
					"path":   labDir,
				})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized .spikelab/ in %s\n", root)
			}

			return nil
		},
	}
}

// loadEnv resolves the project root and loads its configuration and
// case store. Commands that run simulations all start here.
func loadEnv(cmd *cobra.Command) (string, *config.Config, *cases.Store, error) {
	root, _ := cmd.Flags().GetString("root")

	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, nil, fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()))

	caseStore, err := cases.LoadDir(filepath.Join(root, cfg.Cases.Dir))
	if err != nil {
		return "", nil, nil, fmt.Errorf("loading cases: %w", err)
	}
	slog.Debug("cases loaded", "count", len(caseStore.Names()), "dir", cfg.Cases.Dir)

	return root, cfg, caseStore, nil
}

// resolveSteps applies the --steps flag over the configured default.
func resolveSteps(cmd *cobra.Command, cfg *config.Config) int {
	steps, _ := cmd.Flags().GetInt("steps")
	if steps != 0 {
		return steps
	}
	return cfg.Simulation.Steps
}
