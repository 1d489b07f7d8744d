package diagnosis

import "github.com/neurokit/spikelab/internal/neuron"

// Effectiveness grades how well an adjusted configuration restored
// normal behavior.
type Effectiveness string

const (
	EffectivenessExcellent Effectiveness = "Excellent"
	EffectivenessGood      Effectiveness = "Good"
	EffectivenessNeedsWork Effectiveness = "Needs Adjustment"
)

// Normal ranges for the three adjustable parameters.
const (
	normalThresholdMin = -60.0
	normalThresholdMax = -50.0
	normalResetMin     = -75.0
	normalResetMax     = -65.0
	normalStimulusMin  = 4.0
	normalStimulusMax  = 6.0
)

// TreatmentResult reports the effectiveness classification together
// with the facts it was derived from.
type TreatmentResult struct {
	Effectiveness     Effectiveness `json:"effectiveness"`
	FiringRate        float64       `json:"firing_rate"`
	ParametersInRange int           `json:"parameters_in_range"`
}

// EvaluateTreatment grades a user-adjusted configuration against the
// normal parameter ranges and the resulting firing rate. It is an
// independent secondary evaluator and does not affect Diagnose.
func EvaluateTreatment(cfg neuron.Config, res *neuron.Result) TreatmentResult {
	inRange := 0
	if cfg.ThresholdVoltage >= normalThresholdMin && cfg.ThresholdVoltage <= normalThresholdMax {
		inRange++
	}
	if cfg.ResetVoltage >= normalResetMin && cfg.ResetVoltage <= normalResetMax {
		inRange++
	}
	if cfg.StimulusPerStep >= normalStimulusMin && cfg.StimulusPerStep <= normalStimulusMax {
		inRange++
	}

	rate := res.FiringRate
	effectiveness := EffectivenessNeedsWork
	switch {
	case rate >= 0.15 && rate <= 0.4 && inRange == 3:
		effectiveness = EffectivenessExcellent
	case rate >= 0.1 && rate <= 0.6 && inRange >= 2:
		effectiveness = EffectivenessGood
	}

	return TreatmentResult{
		Effectiveness:     effectiveness,
		FiringRate:        rate,
		ParametersInRange: inRange,
	}
}
