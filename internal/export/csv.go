package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/neurokit/spikelab/internal/neuron"
)

// writeCSV writes the trace as step,voltage_mv,spike rows.
func writeCSV(w io.Writer, res *neuron.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"step", "voltage_mv", "spike"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, ev := range res.StepLog {
		row := []string{
			strconv.Itoa(ev.Step + 1),
			strconv.FormatFloat(ev.Voltage, 'g', -1, 64),
			strconv.FormatBool(ev.Kind == neuron.EventSpike),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
