package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/neurokit/spikelab/internal/diagnosis"
	"github.com/neurokit/spikelab/internal/neuron"
)

// registerTools registers all simulator MCP tools with the server.
func (s *Server) registerTools() error {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "spikelab_simulate",
		Description: "Run a discrete-time integrate-and-fire simulation for a preset case or explicit parameters",
	}, s.handleSimulate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "spikelab_diagnose",
		Description: "Simulate a neuron and identify its firing problem with an explanation and a recommended fix",
	}, s.handleDiagnose)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "spikelab_cases",
		Description: "List the available neuron investigation cases and their parameters",
	}, s.handleCases)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "spikelab_effectiveness",
		Description: "Evaluate candidate treatment parameters against the healthy firing range",
	}, s.handleEffectiveness)

	return nil
}

// resolveRun turns a tool request's case name or explicit parameters
// into a config and step count, then runs the simulation.
func (s *Server) resolveRun(caseName string, params *neuron.Config, steps int) (neuron.Config, *neuron.Result, error) {
	var cfg neuron.Config
	switch {
	case params != nil:
		cfg = *params
	case caseName != "":
		var err error
		cfg, err = s.cases.Get(caseName)
		if err != nil {
			return neuron.Config{}, nil, err
		}
	default:
		return neuron.Config{}, nil, fmt.Errorf("either case or params is required")
	}

	if steps == 0 {
		steps = s.steps
	}

	res, err := neuron.Simulate(cfg, steps)
	if err != nil {
		return neuron.Config{}, nil, err
	}
	return cfg, res, nil
}

// handleSimulate implements the spikelab_simulate tool.
func (s *Server) handleSimulate(ctx context.Context, req *sdk.CallToolRequest, args SimulateInput) (*sdk.CallToolResult, SimulateOutput, error) {
	cfg, res, err := s.resolveRun(args.Case, args.Params, args.Steps)
	if err != nil {
		return nil, SimulateOutput{}, err
	}

	out := SimulateOutput{
		Name:           res.Name,
		Steps:          res.StepsRequested,
		TotalSpikes:    res.TotalSpikes,
		FiringRate:     res.FiringRate,
		MeanISI:        res.MeanISI,
		SpikeSteps:     displaySteps(res.SpikeSteps),
		VoltageHistory: res.VoltageHistory,
	}

	if s.runs != nil {
		diag, err := diagnosis.Diagnose(cfg, res)
		if err != nil {
			return nil, SimulateOutput{}, err
		}
		id, err := s.runs.SaveRun(ctx, res, diag)
		if err != nil {
			return nil, SimulateOutput{}, fmt.Errorf("archiving run: %w", err)
		}
		out.RunID = id
	}

	return nil, out, nil
}

// handleDiagnose implements the spikelab_diagnose tool.
func (s *Server) handleDiagnose(ctx context.Context, req *sdk.CallToolRequest, args DiagnoseInput) (*sdk.CallToolResult, DiagnoseOutput, error) {
	cfg, res, err := s.resolveRun(args.Case, args.Params, args.Steps)
	if err != nil {
		return nil, DiagnoseOutput{}, err
	}

	diag, err := diagnosis.Diagnose(cfg, res)
	if err != nil {
		return nil, DiagnoseOutput{}, err
	}

	return nil, DiagnoseOutput{
		Name:           res.Name,
		Problem:        diag.Problem,
		Severity:       string(diag.Severity),
		Explanation:    diag.Explanation,
		Recommendation: diag.Recommendation,
		FiringRate:     res.FiringRate,
		TotalSpikes:    res.TotalSpikes,
	}, nil
}

// handleCases implements the spikelab_cases tool.
func (s *Server) handleCases(ctx context.Context, req *sdk.CallToolRequest, args CasesInput) (*sdk.CallToolResult, CasesOutput, error) {
	all := s.cases.All()
	out := CasesOutput{
		Cases: make([]CaseSummary, 0, len(all)),
		Count: len(all),
	}
	for _, cfg := range all {
		out.Cases = append(out.Cases, CaseSummary{
			Name:             cfg.Name,
			InitialVoltage:   cfg.InitialVoltage,
			ThresholdVoltage: cfg.ThresholdVoltage,
			SpikePeakVoltage: cfg.SpikePeakVoltage,
			ResetVoltage:     cfg.ResetVoltage,
			StimulusPerStep:  cfg.StimulusPerStep,
		})
	}
	return nil, out, nil
}

// handleEffectiveness implements the spikelab_effectiveness tool.
func (s *Server) handleEffectiveness(ctx context.Context, req *sdk.CallToolRequest, args EffectivenessInput) (*sdk.CallToolResult, EffectivenessOutput, error) {
	if args.Params == nil {
		return nil, EffectivenessOutput{}, fmt.Errorf("params is required")
	}

	cfg, res, err := s.resolveRun("", args.Params, args.Steps)
	if err != nil {
		return nil, EffectivenessOutput{}, err
	}

	tr := diagnosis.EvaluateTreatment(cfg, res)
	return nil, EffectivenessOutput{
		Effectiveness:     string(tr.Effectiveness),
		FiringRate:        tr.FiringRate,
		ParametersInRange: tr.ParametersInRange,
	}, nil
}

// displaySteps converts internal 0-indexed spike steps to the
// 1-indexed form used everywhere user-facing.
func displaySteps(steps []int) []int {
	out := make([]int, len(steps))
	for i, s := range steps {
		out[i] = s + 1
	}
	return out
}
