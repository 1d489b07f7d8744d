// Package neuron implements a discrete-time integrate-and-fire neuron
// model. Each simulation run is independent: state is created fresh per
// call and returned as an immutable result, so concurrent callers can
// share nothing but the package itself.
package neuron

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidConfig indicates a configuration with non-finite values.
	ErrInvalidConfig = errors.New("invalid neuron config")

	// ErrInvalidSteps indicates a non-positive step count.
	ErrInvalidSteps = errors.New("steps must be positive")
)

// Config holds the parameters of a neuron case. All voltages are in
// millivolts. Values are intentionally unconstrained beyond being
// finite: physiologically broken parameters are the point of the
// exercise, and the diagnostic evaluator classifies them.
type Config struct {
	Name             string  `json:"name" yaml:"name"`
	InitialVoltage   float64 `json:"initial_voltage" yaml:"initial_voltage"`
	ThresholdVoltage float64 `json:"threshold_voltage" yaml:"threshold_voltage"`
	SpikePeakVoltage float64 `json:"spike_peak_voltage" yaml:"spike_peak_voltage"`
	ResetVoltage     float64 `json:"reset_voltage" yaml:"reset_voltage"`
	StimulusPerStep  float64 `json:"stimulus_per_step" yaml:"stimulus_per_step"`
}

// Validate checks that every numeric parameter is a finite number.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"initial_voltage", c.InitialVoltage},
		{"threshold_voltage", c.ThresholdVoltage},
		{"spike_peak_voltage", c.SpikePeakVoltage},
		{"reset_voltage", c.ResetVoltage},
		{"stimulus_per_step", c.StimulusPerStep},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConfig, f.name)
		}
	}
	return nil
}

// EventKind classifies a step log entry.
type EventKind string

const (
	EventNormal EventKind = "normal"
	EventSpike  EventKind = "spike"
)

// StepEvent is one entry in a run's step log. Voltage is the recorded
// trace value for that step: the spike peak on spiking steps, the
// post-stimulus membrane voltage otherwise.
type StepEvent struct {
	Step    int       `json:"step"`
	Kind    EventKind `json:"kind"`
	Voltage float64   `json:"voltage"`
	Message string    `json:"message"`
}

// Result is the immutable outcome of one simulation run.
type Result struct {
	Name           string      `json:"name"`
	Params         Config      `json:"params"`
	StepsRequested int         `json:"steps_requested"`
	TotalSpikes    int         `json:"total_spikes"`
	FiringRate     float64     `json:"firing_rate"`
	MeanISI        float64     `json:"mean_isi"`
	VoltageHistory []float64   `json:"voltage_history"`
	SpikeSteps     []int       `json:"spike_steps"`
	StepLog        []StepEvent `json:"step_log"`
}

// Simulate runs the neuron for the given number of discrete steps and
// returns the full trace. The model is deliberately leak-free: every
// step adds the stimulus, records the un-clamped voltage, then checks
// the firing condition with >= (a voltage exactly at threshold fires).
// On a spike the recorded sample for that step is overwritten with the
// spike peak and the carry-over voltage becomes the reset voltage, so
// VoltageHistory is the measurement trace a chart would show, not the
// internal register trace.
//
// Simulate is deterministic and side-effect free; calling it twice
// with the same inputs yields identical results.
func Simulate(cfg Config, steps int) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if steps <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSteps, steps)
	}

	voltage := cfg.InitialVoltage
	history := make([]float64, 0, steps)
	stepLog := make([]StepEvent, 0, steps)
	var spikeSteps []int

	for t := 0; t < steps; t++ {
		voltage += cfg.StimulusPerStep
		history = append(history, voltage)

		if voltage >= cfg.ThresholdVoltage {
			// The trace keeps the peak for spiking steps, never the
			// pre-threshold value.
			history[t] = cfg.SpikePeakVoltage
			voltage = cfg.ResetVoltage
			spikeSteps = append(spikeSteps, t)
			stepLog = append(stepLog, StepEvent{
				Step:    t,
				Kind:    EventSpike,
				Voltage: cfg.SpikePeakVoltage,
				Message: fmt.Sprintf("spike, reset to %gmV", cfg.ResetVoltage),
			})
			continue
		}

		stepLog = append(stepLog, StepEvent{
			Step:    t,
			Kind:    EventNormal,
			Voltage: voltage,
			Message: fmt.Sprintf("voltage %.1fmV", voltage),
		})
	}

	return &Result{
		Name:           cfg.Name,
		Params:         cfg,
		StepsRequested: steps,
		TotalSpikes:    len(spikeSteps),
		FiringRate:     float64(len(spikeSteps)) / float64(steps),
		MeanISI:        meanInterSpikeInterval(spikeSteps),
		VoltageHistory: history,
		SpikeSteps:     spikeSteps,
		StepLog:        stepLog,
	}, nil
}
