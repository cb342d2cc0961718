// Package history provides a SQLite-backed journal of recordings and
// playback runs. The journal is advisory: a failed write is logged by the
// caller and never fails the user-visible operation.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run kinds.
const (
	KindRecording = "recording"
	KindPlayback  = "playback"
)

// Run outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeStopped = "stopped"
)

// Run is one journal entry.
type Run struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Sequence   string    `json:"sequence"`
	Steps      int       `json:"steps"`
	Outcome    string    `json:"outcome"`
	FailedStep int       `json:"failed_step"` // -1 when not applicable
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// Journal persists run history.
type Journal struct {
	db *sql.DB
}

// New opens (creating if needed) the journal database and runs migrations.
func New(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		sequence TEXT NOT NULL,
		steps INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		failed_step INTEGER NOT NULL DEFAULT -1,
		error TEXT,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_sequence ON runs(sequence);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Append inserts a completed run. The ID is assigned here.
func (j *Journal) Append(run Run) (*Run, error) {
	run.ID = uuid.New().String()
	if run.FailedStep == 0 && run.Outcome == OutcomeOK {
		run.FailedStep = -1
	}

	_, err := j.db.Exec(
		`INSERT INTO runs (id, kind, sequence, steps, outcome, failed_step, error, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.Sequence, run.Steps, run.Outcome, run.FailedStep, run.Error,
		run.StartedAt.UTC(), run.EndedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &run, nil
}

// Recent returns the most recent runs, newest first.
func (j *Journal) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(
		`SELECT id, kind, sequence, steps, outcome, failed_step, error, started_at, ended_at
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var errMsg sql.NullString
		if err := rows.Scan(&run.ID, &run.Kind, &run.Sequence, &run.Steps, &run.Outcome,
			&run.FailedStep, &errMsg, &run.StartedAt, &run.EndedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if errMsg.Valid {
			run.Error = errMsg.String
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ForSequence returns runs for one sequence, newest first.
func (j *Journal) ForSequence(name string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(
		`SELECT id, kind, sequence, steps, outcome, failed_step, error, started_at, ended_at
		 FROM runs WHERE sequence = ? ORDER BY started_at DESC, id LIMIT ?`,
		name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs for sequence: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var errMsg sql.NullString
		if err := rows.Scan(&run.ID, &run.Kind, &run.Sequence, &run.Steps, &run.Outcome,
			&run.FailedStep, &errMsg, &run.StartedAt, &run.EndedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if errMsg.Valid {
			run.Error = errMsg.String
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
