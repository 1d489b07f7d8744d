package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// newTestRootCmd creates a root command with persistent flags for testing subcommands
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "spikelab",
	}
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	return rootCmd
}

// runCommand executes a subcommand against a fresh root and returns
// its combined output.
func runCommand(t *testing.T, sub *cobra.Command, args ...string) (string, error) {
	t.Helper()
	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(sub)
	rootCmd.SetArgs(args)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestNewVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}
}

func TestVersionCmdJSON(t *testing.T) {
	out, err := runCommand(t, newVersionCmd(), "version", "--json")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	var resp map[string]string
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if resp["version"] == "" {
		t.Error("version field is empty")
	}
}

func TestInitCmdCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := runCommand(t, newInitCmd(), "init", "--root", tmpDir)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out, "Initialized") {
		t.Errorf("unexpected output: %q", out)
	}

	labDir := filepath.Join(tmpDir, ".spikelab")
	if _, err := os.Stat(labDir); os.IsNotExist(err) {
		t.Error(".spikelab directory not created")
	}
	configPath := filepath.Join(labDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config.yaml not created")
	}
	casesDir := filepath.Join(tmpDir, "cases")
	if _, err := os.Stat(casesDir); os.IsNotExist(err) {
		t.Error("cases directory not created")
	}
}

func TestInitCmdIdempotent(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := runCommand(t, newInitCmd(), "init", "--root", tmpDir); err != nil {
		t.Fatalf("first init failed: %v", err)
	}

	// Write a custom config and make sure a second init keeps it.
	configPath := filepath.Join(tmpDir, ".spikelab", "config.yaml")
	custom := []byte("simulation:\n  steps: 50\n")
	if err := os.WriteFile(configPath, custom, 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := runCommand(t, newInitCmd(), "init", "--root", tmpDir); err != nil {
		t.Fatalf("second init failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	if string(data) != string(custom) {
		t.Error("init overwrote existing config.yaml")
	}
}

func TestSimulateCmd(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := runCommand(t, newSimulateCmd(), "simulate", "normal-control", "--root", tmpDir, "--steps", "20")
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if !strings.Contains(out, "Simulating: normal-control") {
		t.Errorf("missing header in output: %q", out)
	}
	if !strings.Contains(out, "Total spikes: 6") {
		t.Errorf("missing spike count in output: %q", out)
	}
	if !strings.Contains(out, "Firing rate:  30.0%") {
		t.Errorf("missing firing rate in output: %q", out)
	}
}

func TestSimulateCmdJSON(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := runCommand(t, newSimulateCmd(), "simulate", "normal-control", "--root", tmpDir, "--json")
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	var resp struct {
		Result struct {
			TotalSpikes int     `json:"total_spikes"`
			FiringRate  float64 `json:"firing_rate"`
		} `json:"result"`
		RunID int64 `json:"run_id"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if resp.Result.TotalSpikes != 6 {
		t.Errorf("TotalSpikes = %d, want 6", resp.Result.TotalSpikes)
	}
	// Archiving is enabled by default, so the run gets an ID.
	if resp.RunID == 0 {
		t.Error("expected archived run ID in output")
	}
}

func TestSimulateCmd_UnknownCase(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := runCommand(t, newSimulateCmd(), "simulate", "no-such-case", "--root", tmpDir)
	if err == nil {
		t.Fatal("expected error for unknown case")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSimulateCmd_NoArgs(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := runCommand(t, newSimulateCmd(), "simulate", "--root", tmpDir)
	if err == nil {
		t.Fatal("expected error without case name or --all")
	}
}

func TestSimulateCmd_ExplicitParams(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := runCommand(t, newSimulateCmd(), "simulate",
		"--threshold", "-55", "--stimulus", "5", "--root", tmpDir, "--steps", "20")
	if err != nil {
		t.Fatalf("simulate with params failed: %v", err)
	}
	if !strings.Contains(out, "Simulating: custom") {
		t.Errorf("missing custom header in output: %q", out)
	}
	if !strings.Contains(out, "Total spikes: 6") {
		t.Errorf("missing spike count in output: %q", out)
	}
}

func TestSimulateCmd_All(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := runCommand(t, newSimulateCmd(), "simulate", "--all", "--root", tmpDir)
	if err != nil {
		t.Fatalf("simulate --all failed: %v", err)
	}
	for _, name := range []string{"high-threshold", "low-threshold", "poor-reset", "weak-stimulus", "normal-control"} {
		if !strings.Contains(out, "Simulating: "+name) {
			t.Errorf("missing case %s in output", name)
		}
	}
}

func TestDiagnoseCmd(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := runCommand(t, newDiagnoseCmd(), "diagnose", "poor-reset", "--root", tmpDir)
	if err != nil {
		t.Fatalf("diagnose failed: %v", err)
	}
	if !strings.Contains(out, "Poor Reset") {
		t.Errorf("missing problem label in output: %q", out)
	}
	if !strings.Contains(out, "Critical") {
		t.Errorf("missing severity in output: %q", out)
	}
}

func TestCasesCmd(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := runCommand(t, newCasesCmd(), "cases", "--root", tmpDir)
	if err != nil {
		t.Fatalf("cases failed: %v", err)
	}
	if !strings.Contains(out, "Available cases (5)") {
		t.Errorf("missing case count in output: %q", out)
	}
	if !strings.Contains(out, "normal-control") {
		t.Errorf("missing case name in output: %q", out)
	}
}

func TestCasesCmd_LoadsUserCases(t *testing.T) {
	tmpDir := t.TempDir()
	casesDir := filepath.Join(tmpDir, "cases")
	if err := os.MkdirAll(casesDir, 0755); err != nil {
		t.Fatalf("creating cases dir: %v", err)
	}
	caseYAML := `name: custom-neuron
parameters:
  initial_voltage: -70
  threshold_voltage: -50
  spike_peak_voltage: 30
  reset_voltage: -70
  stimulus_per_step: 4
`
	if err := os.WriteFile(filepath.Join(casesDir, "case_custom.yaml"), []byte(caseYAML), 0644); err != nil {
		t.Fatalf("writing case file: %v", err)
	}

	out, err := runCommand(t, newCasesCmd(), "cases", "--root", tmpDir)
	if err != nil {
		t.Fatalf("cases failed: %v", err)
	}
	if !strings.Contains(out, "custom-neuron") {
		t.Errorf("missing user case in output: %q", out)
	}
	if !strings.Contains(out, "Available cases (6)") {
		t.Errorf("user case not counted: %q", out)
	}
}

func TestEffectivenessCmd(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := runCommand(t, newEffectivenessCmd(), "effectiveness",
		"--threshold", "-55", "--reset", "-70", "--stimulus", "5", "--root", tmpDir)
	if err != nil {
		t.Fatalf("effectiveness failed: %v", err)
	}
	if !strings.Contains(out, "Excellent") {
		t.Errorf("missing rating in output: %q", out)
	}
	if !strings.Contains(out, "3/3") {
		t.Errorf("missing in-range count in output: %q", out)
	}
}

func TestReportCmd(t *testing.T) {
	tmpDir := t.TempDir()
	reportPath := filepath.Join(tmpDir, "report.txt")

	out, err := runCommand(t, newReportCmd(), "report", "--root", tmpDir, "-o", reportPath)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "Report saved") {
		t.Errorf("unexpected output: %q", out)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !strings.Contains(string(data), "SPIKELAB SIMULATION REPORT") {
		t.Error("report file missing header")
	}
}

func TestPlotCmd(t *testing.T) {
	tmpDir := t.TempDir()
	chartPath := filepath.Join(tmpDir, "traces.svg")

	_, err := runCommand(t, newPlotCmd(), "plot", "normal-control", "--root", tmpDir, "-o", chartPath)
	if err != nil {
		t.Fatalf("plot failed: %v", err)
	}

	data, err := os.ReadFile(chartPath)
	if err != nil {
		t.Fatalf("reading chart: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("chart file does not look like SVG")
	}
}

func TestExportCmd(t *testing.T) {
	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "trace.csv")

	_, err := runCommand(t, newExportCmd(), "export", "normal-control",
		"--root", tmpDir, "--format", "csv", "-o", csvPath)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.HasPrefix(string(data), "step,voltage_mv,spike") {
		t.Error("export file missing CSV header")
	}
}

func TestHistoryCmd(t *testing.T) {
	tmpDir := t.TempDir()

	// Archive one run via simulate, then list it.
	if _, err := runCommand(t, newSimulateCmd(), "simulate", "normal-control", "--root", tmpDir); err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	out, err := runCommand(t, newHistoryCmd(), "history", "--root", tmpDir)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "normal-control") {
		t.Errorf("missing archived run in output: %q", out)
	}

	// Show the run by ID.
	out, err = runCommand(t, newHistoryCmd(), "history", "1", "--root", tmpDir)
	if err != nil {
		t.Fatalf("history 1 failed: %v", err)
	}
	if !strings.Contains(out, "Case:     normal-control") {
		t.Errorf("missing run detail in output: %q", out)
	}
}

func TestHistoryCmd_InvalidID(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := runCommand(t, newHistoryCmd(), "history", "abc", "--root", tmpDir)
	if err == nil {
		t.Fatal("expected error for non-numeric run ID")
	}
}
