package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/neurokit/spikelab/internal/neuron"
)

// writeArrow writes the trace as a single Arrow IPC record batch.
// The case name and threshold voltage travel as schema metadata so a
// chart sink can draw the reference line without the config.
func writeArrow(w io.Writer, res *neuron.Result) error {
	meta := arrow.NewMetadata(
		[]string{"case", "threshold_mv", "steps"},
		[]string{
			res.Name,
			strconv.FormatFloat(res.Params.ThresholdVoltage, 'g', -1, 64),
			strconv.Itoa(res.StepsRequested),
		},
	)
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "step", Type: arrow.PrimitiveTypes.Int32},
		{Name: "voltage_mv", Type: arrow.PrimitiveTypes.Float64},
		{Name: "spike", Type: arrow.FixedWidthTypes.Boolean},
	}, &meta)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	steps := builder.Field(0).(*array.Int32Builder)
	voltages := builder.Field(1).(*array.Float64Builder)
	spikes := builder.Field(2).(*array.BooleanBuilder)

	for _, ev := range res.StepLog {
		steps.Append(int32(ev.Step + 1))
		voltages.Append(ev.Voltage)
		spikes.Append(ev.Kind == neuron.EventSpike)
	}

	rec := builder.NewRecord()
	defer rec.Release()

	// The Arrow file writer needs to seek back and patch the footer,
	// so assemble the file in memory before flushing to w.
	sb := &seekBuffer{}
	fw, err := ipc.NewFileWriter(sb, ipc.WithSchema(schema))
	if err != nil {
		return fmt.Errorf("creating arrow writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("writing arrow record: %w", err)
	}
	if err := fw.Close(); err != nil {
		return err
	}
	if _, err := w.Write(sb.buf); err != nil {
		return fmt.Errorf("writing arrow file: %w", err)
	}
	return nil
}

// seekBuffer is a minimal in-memory io.WriteSeeker.
type seekBuffer struct {
	buf []byte
	pos int64
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if end := b.pos + int64(len(p)); end > int64(len(b.buf)) {
		grown := make([]byte, end)
		copy(grown, b.buf)
		b.buf = grown
	}
	copy(b.buf[b.pos:], p)
	b.pos += int64(len(p))
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = b.pos + offset
	case io.SeekEnd:
		pos = int64(len(b.buf)) + offset
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("seek: negative offset %d", offset)
	}
	b.pos = pos
	return pos, nil
}
