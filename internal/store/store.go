// Package store persists completed simulation runs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/neurokit/spikelab/internal/diagnosis"
	"github.com/neurokit/spikelab/internal/neuron"
)

// ErrRunNotFound indicates a lookup of an archived run that does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run is one archived simulation run: the full result plus its
// diagnosis, with a few columns denormalized for listing.
type Run struct {
	ID        int64                `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	CaseName  string               `json:"case_name"`
	Steps     int                  `json:"steps"`
	Spikes    int                  `json:"spikes"`
	Rate      float64              `json:"rate"`
	Kind      diagnosis.Kind       `json:"kind"`
	Severity  diagnosis.Severity   `json:"severity"`
	Result    *neuron.Result       `json:"result,omitempty"`
	Diagnosis *diagnosis.Diagnosis `json:"diagnosis,omitempty"`
}

// RunStore defines the interface for archiving and querying runs.
type RunStore interface {
	// SaveRun archives a completed run and returns its assigned ID.
	SaveRun(ctx context.Context, res *neuron.Result, diag diagnosis.Diagnosis) (int64, error)

	// GetRun returns the full archived run, including result and
	// diagnosis payloads. Returns ErrRunNotFound for unknown IDs.
	GetRun(ctx context.Context, id int64) (*Run, error)

	// ListRuns returns up to limit runs, newest first, without the
	// full payloads. limit <= 0 means no limit.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	Close() error
}
