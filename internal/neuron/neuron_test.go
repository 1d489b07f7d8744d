package neuron

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestSimulate_NoFiring(t *testing.T) {
	cfg := Config{
		Name:             "no-firing",
		InitialVoltage:   -70,
		ThresholdVoltage: 0,
		SpikePeakVoltage: 30,
		ResetVoltage:     -70,
		StimulusPerStep:  2,
	}

	res, err := Simulate(cfg, 20)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if res.TotalSpikes != 0 {
		t.Errorf("TotalSpikes = %d, want 0", res.TotalSpikes)
	}
	if res.FiringRate != 0 {
		t.Errorf("FiringRate = %v, want 0", res.FiringRate)
	}
	// -70 + 20*2 = -30, never reaching the 0mV threshold.
	got := res.VoltageHistory[len(res.VoltageHistory)-1]
	if got != -30 {
		t.Errorf("final voltage = %v, want -30", got)
	}
	if len(res.SpikeSteps) != 0 {
		t.Errorf("SpikeSteps = %v, want empty", res.SpikeSteps)
	}
}

func TestSimulate_Hyperexcitable(t *testing.T) {
	cfg := Config{
		Name:             "hyperexcitable",
		InitialVoltage:   -70,
		ThresholdVoltage: -80,
		SpikePeakVoltage: 30,
		ResetVoltage:     -70,
		StimulusPerStep:  5,
	}

	res, err := Simulate(cfg, 20)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	// -70+5 = -65 >= -80 fires at step 0, and reset(-70)+5 = -65 keeps
	// firing every step after.
	if res.TotalSpikes != 20 {
		t.Errorf("TotalSpikes = %d, want 20", res.TotalSpikes)
	}
	if res.FiringRate != 1.0 {
		t.Errorf("FiringRate = %v, want 1.0", res.FiringRate)
	}
	for i, v := range res.VoltageHistory {
		if v != cfg.SpikePeakVoltage {
			t.Errorf("VoltageHistory[%d] = %v, want spike peak %v", i, v, cfg.SpikePeakVoltage)
		}
	}
	if res.MeanISI != 1 {
		t.Errorf("MeanISI = %v, want 1", res.MeanISI)
	}
}

func TestSimulate_ThresholdBoundaryFires(t *testing.T) {
	// initial + stimulus lands exactly on threshold: the >= comparison
	// must register a spike at step 0.
	cfg := Config{
		Name:             "boundary",
		InitialVoltage:   -60,
		ThresholdVoltage: -55,
		SpikePeakVoltage: 30,
		ResetVoltage:     -70,
		StimulusPerStep:  5,
	}

	res, err := Simulate(cfg, 1)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if res.TotalSpikes != 1 {
		t.Fatalf("TotalSpikes = %d, want 1", res.TotalSpikes)
	}
	if res.SpikeSteps[0] != 0 {
		t.Errorf("SpikeSteps[0] = %d, want 0", res.SpikeSteps[0])
	}
	if res.VoltageHistory[0] != 30 {
		t.Errorf("VoltageHistory[0] = %v, want spike peak 30", res.VoltageHistory[0])
	}
	if res.StepLog[0].Kind != EventSpike {
		t.Errorf("StepLog[0].Kind = %v, want %v", res.StepLog[0].Kind, EventSpike)
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	cfg := Config{
		Name:             "normal",
		InitialVoltage:   -70,
		ThresholdVoltage: -55,
		SpikePeakVoltage: 30,
		ResetVoltage:     -70,
		StimulusPerStep:  5,
	}

	a, err := Simulate(cfg, 50)
	if err != nil {
		t.Fatalf("first Simulate() error = %v", err)
	}
	b, err := Simulate(cfg, 50)
	if err != nil {
		t.Fatalf("second Simulate() error = %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("two runs with identical inputs produced different results")
	}
}

func TestSimulate_TracePreservesStepCount(t *testing.T) {
	cfg := Config{
		Name:             "normal",
		InitialVoltage:   -70,
		ThresholdVoltage: -55,
		SpikePeakVoltage: 30,
		ResetVoltage:     -70,
		StimulusPerStep:  5,
	}

	for _, steps := range []int{1, 7, 20, 100} {
		res, err := Simulate(cfg, steps)
		if err != nil {
			t.Fatalf("Simulate(steps=%d) error = %v", steps, err)
		}
		if len(res.VoltageHistory) != steps {
			t.Errorf("steps=%d: len(VoltageHistory) = %d", steps, len(res.VoltageHistory))
		}
		if len(res.StepLog) != steps {
			t.Errorf("steps=%d: len(StepLog) = %d", steps, len(res.StepLog))
		}
		if res.FiringRate < 0 || res.FiringRate > 1 {
			t.Errorf("steps=%d: FiringRate = %v out of [0,1]", steps, res.FiringRate)
		}
		prev := -1
		for _, s := range res.SpikeSteps {
			if s <= prev || s >= steps {
				t.Errorf("steps=%d: spike step %d out of order or range", steps, s)
			}
			prev = s
		}
	}
}

func TestSimulate_CarryOverUsesResetVoltage(t *testing.T) {
	cfg := Config{
		Name:             "single-spike",
		InitialVoltage:   -60,
		ThresholdVoltage: -55,
		SpikePeakVoltage: 30,
		ResetVoltage:     -90,
		StimulusPerStep:  5,
	}

	res, err := Simulate(cfg, 2)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	// Step 0 spikes; step 1 starts from the reset voltage, not the peak.
	if res.TotalSpikes != 1 {
		t.Fatalf("TotalSpikes = %d, want 1", res.TotalSpikes)
	}
	if res.VoltageHistory[1] != -85 {
		t.Errorf("VoltageHistory[1] = %v, want -85 (reset -90 + stimulus 5)", res.VoltageHistory[1])
	}
}

func TestSimulate_RejectsInvalidSteps(t *testing.T) {
	cfg := Config{Name: "x", InitialVoltage: -70, ThresholdVoltage: -55, SpikePeakVoltage: 30, ResetVoltage: -70, StimulusPerStep: 5}

	for _, steps := range []int{0, -1, -20} {
		_, err := Simulate(cfg, steps)
		if !errors.Is(err, ErrInvalidSteps) {
			t.Errorf("Simulate(steps=%d) error = %v, want ErrInvalidSteps", steps, err)
		}
	}
}

func TestSimulate_RejectsNonFiniteConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"nan threshold", Config{ThresholdVoltage: math.NaN()}},
		{"inf stimulus", Config{StimulusPerStep: math.Inf(1)}},
		{"neg inf reset", Config{ResetVoltage: math.Inf(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Simulate(tt.cfg, 10)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Simulate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestMeanInterSpikeInterval(t *testing.T) {
	tests := []struct {
		name  string
		steps []int
		want  float64
	}{
		{"no spikes", nil, 0},
		{"one spike", []int{3}, 0},
		{"regular", []int{0, 2, 4, 6}, 2},
		{"irregular", []int{0, 1, 5}, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := meanInterSpikeInterval(tt.steps); got != tt.want {
				t.Errorf("meanInterSpikeInterval(%v) = %v, want %v", tt.steps, got, tt.want)
			}
		})
	}
}
