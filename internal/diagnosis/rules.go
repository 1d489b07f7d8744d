// Package diagnosis classifies simulated neuron behavior with an
// ordered rule set. Rules are evaluated in priority order and the
// first match wins, so the order of the table below is load-bearing.
package diagnosis

import (
	"fmt"

	"github.com/neurokit/spikelab/internal/neuron"
)

// Severity grades a diagnosis.
type Severity string

const (
	SeverityNormal   Severity = "Normal"
	SeverityMild     Severity = "Mild"
	SeverityCritical Severity = "Critical"
)

// Kind is the machine-readable problem tag, paired 1:1 with the
// human-readable problem label.
type Kind string

const (
	KindNormal         Kind = "normal"
	KindNoFiring       Kind = "no-firing"
	KindHyperexcitable Kind = "hyperexcitable"
	KindHypoexcitable  Kind = "hypoexcitable"
	KindPoorReset      Kind = "poor-reset"
)

// problemLabels maps each kind to its display label.
var problemLabels = map[Kind]string{
	KindNormal:         "Normal Function",
	KindNoFiring:       "No Action Potentials",
	KindHyperexcitable: "Hyperexcitability",
	KindHypoexcitable:  "Hypoexcitability",
	KindPoorReset:      "Poor Reset",
}

// Diagnosis is the structured classification of one simulation run.
type Diagnosis struct {
	CaseName       string   `json:"case_name"`
	Problem        string   `json:"problem"`
	Kind           Kind     `json:"kind"`
	Severity       Severity `json:"severity"`
	Explanation    string   `json:"explanation"`
	Recommendation string   `json:"recommendation"`
}

// Rule is one entry in the ordered diagnostic table. Match decides
// whether the rule fires; Explain fills in the sub-cause texts, which
// never change the rule's kind or severity.
type Rule struct {
	Kind     Kind
	Severity Severity
	Match    func(cfg neuron.Config, rate float64) bool
	Explain  func(cfg neuron.Config) (explanation, recommendation string)
}

// rules is the diagnostic table in strict priority order. An elevated
// reset voltage corrupts every subsequent step's baseline, so it
// dominates any firing-rate symptom and sits first.
var rules = []Rule{
	{
		Kind:     KindPoorReset,
		Severity: SeverityCritical,
		Match: func(cfg neuron.Config, rate float64) bool {
			return cfg.ResetVoltage > -50
		},
		Explain: func(cfg neuron.Config) (string, string) {
			return "Reset voltage is elevated - the membrane never returns to a healthy baseline after a spike, corrupting every following step",
				fmt.Sprintf("Lower reset voltage from %gmV to around -70mV", cfg.ResetVoltage)
		},
	},
	{
		Kind:     KindNoFiring,
		Severity: SeverityCritical,
		Match: func(cfg neuron.Config, rate float64) bool {
			return rate == 0
		},
		Explain: explainNoFiring,
	},
	{
		Kind:     KindHyperexcitable,
		Severity: SeverityCritical,
		Match: func(cfg neuron.Config, rate float64) bool {
			return rate > 0.8
		},
		Explain: explainHyperexcitable,
	},
	{
		Kind:     KindHypoexcitable,
		Severity: SeverityMild,
		Match: func(cfg neuron.Config, rate float64) bool {
			return rate > 0 && rate < 0.2
		},
		Explain: explainHypoexcitable,
	},
	{
		Kind:     KindNormal,
		Severity: SeverityNormal,
		Match: func(cfg neuron.Config, rate float64) bool {
			return true
		},
		Explain: func(cfg neuron.Config) (string, string) {
			return "Neuron shows healthy firing patterns", "No adjustments needed"
		},
	},
}

func explainNoFiring(cfg neuron.Config) (string, string) {
	switch {
	case cfg.ThresholdVoltage > -40:
		return "Threshold voltage is too high - neuron cannot reach firing threshold",
			fmt.Sprintf("Lower threshold from %gmV to around -55mV", cfg.ThresholdVoltage)
	case cfg.StimulusPerStep < 3:
		return "Stimulus is too weak to reach threshold",
			fmt.Sprintf("Increase stimulus from %gmV to around 5-10mV", cfg.StimulusPerStep)
	default:
		return "Parameters interact to keep the membrane below threshold",
			"Lower the threshold or increase the stimulus until firing resumes"
	}
}

func explainHyperexcitable(cfg neuron.Config) (string, string) {
	switch {
	case cfg.ThresholdVoltage < -75:
		return "Threshold voltage is too low - neuron fires too easily",
			fmt.Sprintf("Raise threshold from %gmV to around -55mV", cfg.ThresholdVoltage)
	case cfg.ResetVoltage > -60:
		return "Reset voltage is too high - neuron stays near threshold",
			fmt.Sprintf("Lower reset voltage from %gmV to around -70mV", cfg.ResetVoltage)
	default:
		return "Parameters are imbalanced toward continuous firing",
			"Raise the threshold or lower the stimulus to restore a normal rate"
	}
}

func explainHypoexcitable(cfg neuron.Config) (string, string) {
	explanation := "Neuron fires but less frequently than normal"
	if cfg.StimulusPerStep < 5 {
		return explanation, fmt.Sprintf("Consider increasing stimulus from %gmV", cfg.StimulusPerStep)
	}
	return explanation, "Lower the threshold or increase the stimulus to raise the firing rate"
}

// Diagnose classifies a completed run. It is a pure function of the
// configuration and its paired result; re-running it cannot change
// the outcome.
func Diagnose(cfg neuron.Config, res *neuron.Result) (Diagnosis, error) {
	if err := cfg.Validate(); err != nil {
		return Diagnosis{}, err
	}
	if res == nil {
		return Diagnosis{}, fmt.Errorf("%w: nil result", neuron.ErrInvalidConfig)
	}

	for _, r := range rules {
		if !r.Match(cfg, res.FiringRate) {
			continue
		}
		explanation, recommendation := r.Explain(cfg)
		return Diagnosis{
			CaseName:       res.Name,
			Problem:        problemLabels[r.Kind],
			Kind:           r.Kind,
			Severity:       r.Severity,
			Explanation:    explanation,
			Recommendation: recommendation,
		}, nil
	}

	// Unreachable: the normal rule always matches.
	return Diagnosis{}, fmt.Errorf("no diagnostic rule matched")
}
