// Package history records tuning runs and their evaluations in SQLite. The
// evaluation log doubles as a cost memo: cost is a pure function of
// (configuration, corpus), so a fingerprint seen before can be answered
// without spawning formatter processes.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	started_at   TIMESTAMP NOT NULL,
	finished_at  TIMESTAMP,
	corpus_files INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS evaluations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL REFERENCES runs(id),
	fingerprint TEXT NOT NULL,
	cost        INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evaluations_fingerprint
	ON evaluations(fingerprint);
`

// Store logs one tuning run.
type Store struct {
	db    *sql.DB
	runID string
}

// Config holds history store configuration.
type Config struct {
	Path        string // SQLite database path (required)
	CorpusFiles int    // Corpus size recorded on the run row
}

// Open opens (creating if needed) the history database and registers a new
// run row.
func Open(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("history path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+cfg.Path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	runID := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, corpus_files) VALUES (?, ?, ?)`,
		runID, time.Now().UTC(), cfg.CorpusFiles)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registering run: %w", err)
	}

	return &Store{db: db, runID: runID}, nil
}

// RunID returns this run's identifier.
func (s *Store) RunID() string {
	return s.runID
}

// LookupCost returns the most recently recorded cost for fingerprint, if
// any.
func (s *Store) LookupCost(ctx context.Context, fingerprint string) (int, bool, error) {
	var cost int
	err := s.db.QueryRowContext(ctx,
		`SELECT cost FROM evaluations WHERE fingerprint = ? ORDER BY id DESC LIMIT 1`,
		fingerprint).Scan(&cost)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying cost memo: %w", err)
	}
	return cost, true, nil
}

// RecordEvaluation appends one evaluation result to this run's log.
func (s *Store) RecordEvaluation(ctx context.Context, fingerprint string, cost int, elapsed time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluations (run_id, fingerprint, cost, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.runID, fingerprint, cost, elapsed.Milliseconds(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording evaluation: %w", err)
	}
	return nil
}

// FinishRun stamps the run row with its completion time.
func (s *Store) FinishRun(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ? WHERE id = ?`,
		time.Now().UTC(), s.runID)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// EvaluationCount returns how many evaluations this run has logged.
func (s *Store) EvaluationCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM evaluations WHERE run_id = ?`, s.runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting evaluations: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
