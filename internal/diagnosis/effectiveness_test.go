package diagnosis

import (
	"testing"

	"github.com/neurokit/spikelab/internal/neuron"
)

func TestEvaluateTreatment(t *testing.T) {
	tests := []struct {
		name        string
		cfg         neuron.Config
		rate        float64
		wantGrade   Effectiveness
		wantInRange int
	}{
		{
			name: "all parameters normal, rate in tight band",
			cfg: neuron.Config{
				ThresholdVoltage: -55,
				ResetVoltage:     -70,
				StimulusPerStep:  5,
			},
			rate:        0.3,
			wantGrade:   EffectivenessExcellent,
			wantInRange: 3,
		},
		{
			name: "two parameters normal, rate in wide band",
			cfg: neuron.Config{
				ThresholdVoltage: -55,
				ResetVoltage:     -70,
				StimulusPerStep:  8, // outside [4, 6]
			},
			rate:        0.5,
			wantGrade:   EffectivenessGood,
			wantInRange: 2,
		},
		{
			name: "tight rate but a parameter out of range falls to Good",
			cfg: neuron.Config{
				ThresholdVoltage: -55,
				ResetVoltage:     -80, // outside [-75, -65]
				StimulusPerStep:  5,
			},
			rate:        0.2,
			wantGrade:   EffectivenessGood,
			wantInRange: 2,
		},
		{
			name: "rate outside both bands",
			cfg: neuron.Config{
				ThresholdVoltage: -55,
				ResetVoltage:     -70,
				StimulusPerStep:  5,
			},
			rate:        0.9,
			wantGrade:   EffectivenessNeedsWork,
			wantInRange: 3,
		},
		{
			name: "only one parameter in range",
			cfg: neuron.Config{
				ThresholdVoltage: -30,
				ResetVoltage:     -40,
				StimulusPerStep:  5,
			},
			rate:        0.3,
			wantGrade:   EffectivenessNeedsWork,
			wantInRange: 1,
		},
		{
			name: "range boundaries are inclusive",
			cfg: neuron.Config{
				ThresholdVoltage: -60,
				ResetVoltage:     -65,
				StimulusPerStep:  4,
			},
			rate:        0.15,
			wantGrade:   EffectivenessExcellent,
			wantInRange: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &neuron.Result{FiringRate: tt.rate}
			got := EvaluateTreatment(tt.cfg, res)
			if got.Effectiveness != tt.wantGrade {
				t.Errorf("Effectiveness = %v, want %v", got.Effectiveness, tt.wantGrade)
			}
			if got.ParametersInRange != tt.wantInRange {
				t.Errorf("ParametersInRange = %d, want %d", got.ParametersInRange, tt.wantInRange)
			}
		})
	}
}

func TestEvaluateTreatment_DoesNotAffectDiagnose(t *testing.T) {
	cfg := neuron.Config{
		Name:             "control",
		InitialVoltage:   -70,
		ThresholdVoltage: -55,
		SpikePeakVoltage: 30,
		ResetVoltage:     -70,
		StimulusPerStep:  5,
	}
	res := mustSimulate(t, cfg, 20)

	before, err := Diagnose(cfg, res)
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}
	_ = EvaluateTreatment(cfg, res)
	after, err := Diagnose(cfg, res)
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}
	if before != after {
		t.Error("EvaluateTreatment changed the primary diagnosis")
	}
}
