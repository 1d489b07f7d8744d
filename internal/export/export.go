// Package export writes voltage traces in formats consumable by
// external charting sinks. Steps are 1-indexed in exported files, the
// way the trace is displayed.
package export

import (
	"fmt"
	"io"

	"github.com/neurokit/spikelab/internal/neuron"
)

// Format specifies the trace export format.
type Format string

const (
	FormatArrow Format = "arrow"
	FormatCSV   Format = "csv"
)

// Write writes the run's voltage trace to w in the given format.
func Write(w io.Writer, res *neuron.Result, format Format) error {
	switch format {
	case FormatArrow:
		return writeArrow(w, res)
	case FormatCSV:
		return writeCSV(w, res)
	default:
		return fmt.Errorf("unknown export format: %q", format)
	}
}
