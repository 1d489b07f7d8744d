package mcp

import (
	"github.com/neurokit/spikelab/internal/neuron"
)

// SimulateInput defines the input for the spikelab_simulate tool.
type SimulateInput struct {
	Case   string         `json:"case,omitempty" jsonschema:"Name of a preset case to simulate"`
	Params *neuron.Config `json:"params,omitempty" jsonschema:"Explicit neuron parameters (overrides case)"`
	Steps  int            `json:"steps,omitempty" jsonschema:"Number of time steps to simulate (default from server config)"`
}

// SimulateOutput defines the output for the spikelab_simulate tool.
type SimulateOutput struct {
	Name           string    `json:"name" jsonschema:"Case name"`
	Steps          int       `json:"steps" jsonschema:"Number of steps simulated"`
	TotalSpikes    int       `json:"total_spikes" jsonschema:"Number of spikes fired"`
	FiringRate     float64   `json:"firing_rate" jsonschema:"Spikes per step (0.0-1.0)"`
	MeanISI        float64   `json:"mean_isi" jsonschema:"Mean inter-spike interval in steps (0 if fewer than 2 spikes)"`
	SpikeSteps     []int     `json:"spike_steps" jsonschema:"1-indexed steps at which spikes occurred"`
	VoltageHistory []float64 `json:"voltage_history" jsonschema:"Recorded voltage per step (spike steps show the peak)"`
	RunID          int64     `json:"run_id,omitempty" jsonschema:"Archive row ID if run archiving is enabled"`
}

// DiagnoseInput defines the input for the spikelab_diagnose tool.
type DiagnoseInput struct {
	Case   string         `json:"case,omitempty" jsonschema:"Name of a preset case to diagnose"`
	Params *neuron.Config `json:"params,omitempty" jsonschema:"Explicit neuron parameters (overrides case)"`
	Steps  int            `json:"steps,omitempty" jsonschema:"Number of time steps to simulate before diagnosing"`
}

// DiagnoseOutput defines the output for the spikelab_diagnose tool.
type DiagnoseOutput struct {
	Name           string  `json:"name" jsonschema:"Case name"`
	Problem        string  `json:"problem" jsonschema:"Identified problem label"`
	Severity       string  `json:"severity" jsonschema:"Problem severity: Normal, Mild, or Critical"`
	Explanation    string  `json:"explanation" jsonschema:"Why the neuron behaves this way"`
	Recommendation string  `json:"recommendation" jsonschema:"Suggested parameter change"`
	FiringRate     float64 `json:"firing_rate" jsonschema:"Observed firing rate"`
	TotalSpikes    int     `json:"total_spikes" jsonschema:"Observed spike count"`
}

// CasesInput defines the input for the spikelab_cases tool.
type CasesInput struct{}

// CasesOutput defines the output for the spikelab_cases tool.
type CasesOutput struct {
	Cases []CaseSummary `json:"cases" jsonschema:"Available preset cases"`
	Count int           `json:"count" jsonschema:"Number of cases"`
}

// CaseSummary describes one preset case.
type CaseSummary struct {
	Name             string  `json:"name"`
	InitialVoltage   float64 `json:"initial_voltage"`
	ThresholdVoltage float64 `json:"threshold_voltage"`
	SpikePeakVoltage float64 `json:"spike_peak_voltage"`
	ResetVoltage     float64 `json:"reset_voltage"`
	StimulusPerStep  float64 `json:"stimulus_per_step"`
}

// EffectivenessInput defines the input for the spikelab_effectiveness tool.
type EffectivenessInput struct {
	Params *neuron.Config `json:"params" jsonschema:"Candidate treatment parameters to evaluate"`
	Steps  int            `json:"steps,omitempty" jsonschema:"Number of time steps to simulate"`
}

// EffectivenessOutput defines the output for the spikelab_effectiveness tool.
type EffectivenessOutput struct {
	Effectiveness     string  `json:"effectiveness" jsonschema:"Rating: Excellent, Good, or Needs Adjustment"`
	FiringRate        float64 `json:"firing_rate" jsonschema:"Observed firing rate"`
	ParametersInRange int     `json:"parameters_in_range" jsonschema:"How many of threshold, reset, and stimulus fall in the normal range (0-3)"`
}
