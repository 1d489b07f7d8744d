// Package logging provides leveled logging and step tracing for spikelab.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A StepTraceLogger for structured JSONL step traces (.spikelab/steps.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/neurokit/spikelab/internal/neuron"
)

// LevelTrace is a custom slog level below Debug for full trace logging.
// At this level, per-step simulation events are included.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// StepTraceLogger writes per-step simulation events to a JSONL file.
// It is safe for concurrent use. A nil StepTraceLogger is safe to use;
// all methods are no-ops on nil receiver.
type StepTraceLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewStepTraceLogger creates a step trace logger writing to
// dir/steps.jsonl. At "info" and "debug" levels, returns nil — no file
// is created; only "trace" enables it. Returns nil if the file cannot
// be opened. All methods are nil-safe.
func NewStepTraceLogger(dir string, level string) *StepTraceLogger {
	if ParseLevel(level) != LevelTrace {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, "steps.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &StepTraceLogger{file: f}
}

// traceEntry is one JSONL line: a step event tagged with its run.
type traceEntry struct {
	Time    string  `json:"time"`
	Case    string  `json:"case"`
	Step    int     `json:"step"`
	Kind    string  `json:"kind"`
	Voltage float64 `json:"voltage"`
	Message string  `json:"message"`
}

// LogRun writes every step event of a completed run, one JSONL line
// per step. Safe to call on nil receiver.
func (sl *StepTraceLogger) LogRun(res *neuron.Result) {
	if sl == nil || sl.file == nil || res == nil {
		return
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	sl.mu.Lock()
	defer sl.mu.Unlock()

	for _, ev := range res.StepLog {
		data, err := json.Marshal(traceEntry{
			Time:    now,
			Case:    res.Name,
			Step:    ev.Step,
			Kind:    string(ev.Kind),
			Voltage: ev.Voltage,
			Message: ev.Message,
		})
		if err != nil {
			continue
		}
		data = append(data, '\n')
		_, _ = sl.file.Write(data)
	}
}

// Close closes the underlying file. Safe to call on nil receiver.
func (sl *StepTraceLogger) Close() {
	if sl == nil || sl.file == nil {
		return
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	sl.file.Close()
	sl.file = nil
}
