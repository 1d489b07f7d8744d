// Package report renders a plain-text summary of one or more
// simulation runs, pairing each run with its diagnosis and treatment
// evaluation.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/neurokit/spikelab/internal/diagnosis"
	"github.com/neurokit/spikelab/internal/neuron"
)

// Entry is one case in a report: the run plus its assessments.
type Entry struct {
	Config        neuron.Config
	Result        *neuron.Result
	Diagnosis     diagnosis.Diagnosis
	Effectiveness diagnosis.TreatmentResult
}

const reportTemplate = `SPIKELAB SIMULATION REPORT
{{rule "="}}

{{range .Entries -}}
CASE: {{.Result.Name}}
{{rule "-"}}
Parameters:
  threshold:      {{.Config.ThresholdVoltage}} mV
  reset voltage:  {{.Config.ResetVoltage}} mV
  stimulus/step:  {{.Config.StimulusPerStep}} mV

Results:
  total spikes:   {{.Result.TotalSpikes}}
  firing rate:    {{percent .Result.FiringRate}}
  spike steps:    {{spikeSteps .Result.SpikeSteps}}
  mean ISI:       {{isi .Result.MeanISI}}

Diagnosis:
  problem:        {{.Diagnosis.Problem}}
  severity:       {{.Diagnosis.Severity}}
  explanation:    {{.Diagnosis.Explanation}}
  recommendation: {{.Diagnosis.Recommendation}}

Treatment:
  effectiveness:  {{.Effectiveness.Effectiveness}} ({{.Effectiveness.ParametersInRange}}/3 parameters in range)

{{rule "="}}

{{end -}}
`

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"rule": func(ch string) string { return strings.Repeat(ch, 50) },
	"percent": func(rate float64) string {
		return fmt.Sprintf("%.1f%%", rate*100)
	},
	"spikeSteps": func(steps []int) string {
		if len(steps) == 0 {
			return "none"
		}
		parts := make([]string, len(steps))
		for i, s := range steps {
			parts[i] = fmt.Sprintf("%d", s+1)
		}
		return strings.Join(parts, ", ")
	},
	"isi": func(v float64) string {
		if v == 0 {
			return "n/a"
		}
		return fmt.Sprintf("%.1f steps", v)
	},
}).Parse(reportTemplate))

// Build runs each case for the given number of steps and assembles
// report entries in the order given.
func Build(configs []neuron.Config, steps int) ([]Entry, error) {
	entries := make([]Entry, 0, len(configs))
	for _, cfg := range configs {
		res, err := neuron.Simulate(cfg, steps)
		if err != nil {
			return nil, fmt.Errorf("simulating %s: %w", cfg.Name, err)
		}
		diag, err := diagnosis.Diagnose(cfg, res)
		if err != nil {
			return nil, fmt.Errorf("diagnosing %s: %w", cfg.Name, err)
		}
		entries = append(entries, Entry{
			Config:        cfg,
			Result:        res,
			Diagnosis:     diag,
			Effectiveness: diagnosis.EvaluateTreatment(cfg, res),
		})
	}
	return entries, nil
}

// Write renders the report for the given entries to w.
func Write(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("no entries to report")
	}
	return tmpl.Execute(w, struct{ Entries []Entry }{entries})
}
