package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteResultStore persists result sets in a SQLite database so repeated
// sweeps against the same target can be kept and re-plotted later.
type SQLiteResultStore struct {
	db *sql.DB
}

const resultSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trials (
	run_id      INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seed        INTEGER NOT NULL,
	error_count INTEGER NOT NULL,
	error_type  TEXT NOT NULL,
	success     INTEGER NOT NULL,
	completed   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trials_run ON trials(run_id);
`

// OpenResultStore opens (creating if necessary) the results database at path.
func OpenResultStore(path string) (*SQLiteResultStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening results database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), resultSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing results schema: %w", err)
	}

	return &SQLiteResultStore{db: db}, nil
}

// SaveRun stores a finalized result set as a new run and returns its id.
func (s *SQLiteResultStore) SaveRun(ctx context.Context, rs *ResultSet) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at) VALUES (?)`,
		rs.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolving run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trials (run_id, seed, error_count, error_type, success, completed)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing trial insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range rs.Records {
		if _, err := stmt.ExecContext(ctx,
			runID, rec.Seed, rec.ErrorCount, rec.ErrorClass,
			boolToInt(rec.Success), boolToInt(rec.Completed)); err != nil {
			return 0, fmt.Errorf("inserting trial for seed %d: %w", rec.Seed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// LoadRun reads a stored run back into a ResultSet, records in insertion
// order.
func (s *SQLiteResultStore) LoadRun(ctx context.Context, runID int64) (*ResultSet, error) {
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM runs WHERE id = ?`, runID).Scan(&createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %d: %w", runID, err)
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing run %d timestamp: %w", runID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seed, error_count, error_type, success, completed
		 FROM trials WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading trials for run %d: %w", runID, err)
	}
	defer rows.Close()

	rs := &ResultSet{CreatedAt: ts}
	for rows.Next() {
		var rec TrialRecord
		var success, completed int
		if err := rows.Scan(&rec.Seed, &rec.ErrorCount, &rec.ErrorClass, &success, &completed); err != nil {
			return nil, fmt.Errorf("scanning trial: %w", err)
		}
		rec.Success = success != 0
		rec.Completed = completed != 0
		rs.Append(rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trials: %w", err)
	}
	return rs, nil
}

// RunInfo summarizes one stored run.
type RunInfo struct {
	ID        int64
	CreatedAt time.Time
	Trials    int
}

// ListRuns returns all stored runs, newest first.
func (s *SQLiteResultStore) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.created_at, COUNT(t.rowid)
		 FROM runs r LEFT JOIN trials t ON t.run_id = r.id
		 GROUP BY r.id ORDER BY r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		var createdAt string
		if err := rows.Scan(&info.ID, &createdAt, &info.Trials); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing run %d timestamp: %w", info.ID, err)
		}
		info.CreatedAt = ts
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return infos, nil
}

// Close closes the underlying database.
func (s *SQLiteResultStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
