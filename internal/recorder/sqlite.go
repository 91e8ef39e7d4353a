package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS screening_runs (
			id          TEXT PRIMARY KEY,
			executed_at INTEGER NOT NULL,
			mode        TEXT NOT NULL,
			pair_count  INTEGER NOT NULL,
			delivered   INTEGER NOT NULL,
			artifact    TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON screening_runs(executed_at)`,

		`CREATE TABLE IF NOT EXISTS screening_results (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL REFERENCES screening_runs(id),
			rank         INTEGER NOT NULL,
			pair         TEXT NOT NULL,
			friday_time  INTEGER,
			friday_close REAL,
			sunday_time  INTEGER,
			sunday_open  REAL,
			gap_pct      REAL,
			note         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_pair ON screening_results(pair, run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run and its ranked rows in one transaction and
// returns the generated run id.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	rep := run.Report

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO screening_runs
		(id, executed_at, mode, pair_count, delivered, artifact, duration_ms)
		VALUES (?,?,?,?,?,?,?)`,
		id, rep.ExecutedAt.Unix(), run.Mode, len(rep.Results), run.Delivered,
		run.Artifact, run.Duration.Milliseconds(),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, row := range rep.Results {
		if _, err := tx.Exec(`INSERT INTO screening_results
			(run_id, rank, pair, friday_time, friday_close, sunday_time, sunday_open, gap_pct, note)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			id, i+1, row.Pair,
			unixOrNull(row.FridayTime), row.FridayClose,
			unixOrNull(row.SundayTime), row.SundayOpen,
			row.GapPct, row.Note,
		); err != nil {
			return "", fmt.Errorf("insert result %s: %w", row.Pair, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func unixOrNull(t null.Time) null.Int {
	if !t.Valid {
		return null.Int{}
	}
	return null.IntFrom(t.Time.Unix())
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
