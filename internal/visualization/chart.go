// Package visualization renders voltage traces in various output formats.
package visualization

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/neurokit/spikelab/internal/neuron"
)

// Format specifies the output format for chart rendering.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// RenderTrace draws the voltage traces of one or more runs over time,
// with a dashed reference line at the first run's threshold voltage.
// Steps are 1-indexed on the axis, matching the exported trace.
func RenderTrace(w io.Writer, results []*neuron.Result, format Format) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to render")
	}

	p := plot.New()
	p.Title.Text = "Neuron Voltage Traces Over Time"
	p.X.Label.Text = "Time Step"
	p.Y.Label.Text = "Membrane Voltage (mV)"
	p.Add(plotter.NewGrid())

	for i, res := range results {
		pts := make(plotter.XYs, len(res.VoltageHistory))
		for t, v := range res.VoltageHistory {
			pts[t].X = float64(t + 1)
			pts[t].Y = v
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("building trace for %s: %w", res.Name, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(res.Name, line, points)
	}

	threshold := results[0].Params.ThresholdVoltage
	maxStep := 0
	for _, res := range results {
		if res.StepsRequested > maxStep {
			maxStep = res.StepsRequested
		}
	}
	ref, err := plotter.NewLine(plotter.XYs{
		{X: 1, Y: threshold},
		{X: float64(maxStep), Y: threshold},
	})
	if err != nil {
		return fmt.Errorf("building threshold line: %w", err)
	}
	ref.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(ref)
	p.Legend.Add(fmt.Sprintf("threshold (%gmV)", threshold), ref)
	p.Legend.Top = true

	return writePlot(w, p, format, 8*vg.Inch, 4*vg.Inch)
}

// RenderSpikeComparison draws a bar chart of total spikes per case.
func RenderSpikeComparison(w io.Writer, results []*neuron.Result, format Format) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to render")
	}

	values := make(plotter.Values, len(results))
	names := make([]string, len(results))
	for i, res := range results {
		values[i] = float64(res.TotalSpikes)
		names[i] = res.Name
	}

	p := plot.New()
	p.Title.Text = "Spike Count Comparison"
	p.X.Label.Text = "Neuron Case"
	p.Y.Label.Text = "Total Spikes"

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("building bar chart: %w", err)
	}
	bars.Color = plotutil.Color(2)
	p.Add(bars)
	p.NominalX(names...)

	return writePlot(w, p, format, 6*vg.Inch, 4*vg.Inch)
}

func writePlot(w io.Writer, p *plot.Plot, format Format, width, height vg.Length) error {
	switch format {
	case FormatSVG, FormatPNG:
	default:
		return fmt.Errorf("unknown chart format: %q", format)
	}

	wt, err := p.WriterTo(width, height, string(format))
	if err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing %s: %w", format, err)
	}
	return nil
}
