package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaSQL defines the run archive tables.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at     TEXT NOT NULL,
	case_name      TEXT NOT NULL,
	steps          INTEGER NOT NULL,
	spikes         INTEGER NOT NULL,
	firing_rate    REAL NOT NULL,
	kind           TEXT NOT NULL,
	severity       TEXT NOT NULL,
	result_json    TEXT NOT NULL,
	diagnosis_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_case_name ON runs(case_name);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// InitSchema creates the archive tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
