package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/neurokit/spikelab/internal/diagnosis"
	"github.com/neurokit/spikelab/internal/neuron"
)

// SQLiteRunStore implements RunStore using SQLite for persistence.
type SQLiteRunStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// NewSQLiteRunStore creates a run archive rooted at projectRoot.
// The database lives at .spikelab/runs.db.
func NewSQLiteRunStore(projectRoot string) (*SQLiteRunStore, error) {
	dir := filepath.Join(projectRoot, ".spikelab")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .spikelab directory: %w", err)
	}

	dbPath := filepath.Join(dir, "runs.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRunStore{db: db, dbPath: dbPath}, nil
}

// SaveRun archives a completed run and returns its assigned ID.
func (s *SQLiteRunStore) SaveRun(ctx context.Context, res *neuron.Result, diag diagnosis.Diagnosis) (int64, error) {
	if res == nil {
		return 0, fmt.Errorf("SaveRun: nil result")
	}

	resultJSON, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal result: %w", err)
	}
	diagJSON, err := json.Marshal(diag)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal diagnosis: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (created_at, case_name, steps, spikes, firing_rate, kind, severity, result_json, diagnosis_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		res.Name,
		res.StepsRequested,
		res.TotalSpikes,
		res.FiringRate,
		string(diag.Kind),
		string(diag.Severity),
		string(resultJSON),
		string(diagJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := out.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	return id, nil
}

// GetRun returns the full archived run, including payloads.
func (s *SQLiteRunStore) GetRun(ctx context.Context, id int64) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, case_name, steps, spikes, firing_rate, kind, severity, result_json, diagnosis_json
		FROM runs WHERE id = ?`, id)

	var (
		run        Run
		createdAt  string
		kind       string
		severity   string
		resultJSON string
		diagJSON   string
	)
	err := row.Scan(&run.ID, &createdAt, &run.CaseName, &run.Steps, &run.Spikes, &run.Rate, &kind, &severity, &resultJSON, &diagJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	run.Kind = diagnosis.Kind(kind)
	run.Severity = diagnosis.Severity(severity)

	var res neuron.Result
	if err := json.Unmarshal([]byte(resultJSON), &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	run.Result = &res

	var diag diagnosis.Diagnosis
	if err := json.Unmarshal([]byte(diagJSON), &diag); err != nil {
		return nil, fmt.Errorf("failed to unmarshal diagnosis: %w", err)
	}
	run.Diagnosis = &diag

	return &run, nil
}

// ListRuns returns up to limit runs, newest first, without payloads.
func (s *SQLiteRunStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, created_at, case_name, steps, spikes, firing_rate, kind, severity
		FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			createdAt string
			kind      string
			severity  string
		)
		if err := rows.Scan(&run.ID, &createdAt, &run.CaseName, &run.Steps, &run.Spikes, &run.Rate, &kind, &severity); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		run.Kind = diagnosis.Kind(kind)
		run.Severity = diagnosis.Severity(severity)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteRunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
