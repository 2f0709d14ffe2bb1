package results

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	started_at       INTEGER NOT NULL,
	finished_at      INTEGER,
	rule_fingerprint TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS steps (
	run_id  TEXT NOT NULL REFERENCES runs(id),
	step    INTEGER NOT NULL,
	allowed INTEGER NOT NULL,
	denied  INTEGER NOT NULL,
	PRIMARY KEY (run_id, step)
);
`

// Store is a SQLite-backed journal of simulation run results.
// SQLite supports a single writer; the store serializes writes internally
// and is safe for use from one control loop plus ad-hoc readers.
type Store struct {
	db        *sql.DB
	mu        sync.Mutex
	closeOnce sync.Once

	insertRunStmt  *sql.Stmt
	finishRunStmt  *sql.Stmt
	insertStepStmt *sql.Stmt
}

// StepCounts summarizes one recorded timestep.
type StepCounts struct {
	Step    int
	Allowed int
	Denied  int
}

// RunInfo describes one recorded run. FinishedAt is zero while the run is
// still in progress.
type RunInfo struct {
	ID              string
	StartedAt       time.Time
	FinishedAt      time.Time
	RuleFingerprint string
}

// Open opens or creates the journal database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}

	// Single writer only.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create results schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.prepare(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) prepare() error {
	var err error
	if s.insertRunStmt, err = s.db.Prepare(
		`INSERT INTO runs (id, started_at, rule_fingerprint) VALUES (?, ?, ?)`,
	); err != nil {
		return fmt.Errorf("failed to prepare insert run: %w", err)
	}
	if s.finishRunStmt, err = s.db.Prepare(
		`UPDATE runs SET finished_at = ? WHERE id = ?`,
	); err != nil {
		return fmt.Errorf("failed to prepare finish run: %w", err)
	}
	if s.insertStepStmt, err = s.db.Prepare(
		`INSERT INTO steps (run_id, step, allowed, denied) VALUES (?, ?, ?, ?)`,
	); err != nil {
		return fmt.Errorf("failed to prepare insert step: %w", err)
	}
	return nil
}

// BeginRun creates a run row and returns its identifier.
func (s *Store) BeginRun(ctx context.Context, ruleFingerprint string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	if _, err := s.insertRunStmt.ExecContext(ctx, id, time.Now().Unix(), ruleFingerprint); err != nil {
		return "", fmt.Errorf("failed to record run start: %w", err)
	}
	return id, nil
}

// RecordStep records the classification counts of one timestep.
func (s *Store) RecordStep(ctx context.Context, runID string, counts StepCounts) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.insertStepStmt.ExecContext(ctx, runID, counts.Step, counts.Allowed, counts.Denied); err != nil {
		return fmt.Errorf("failed to record step %d: %w", counts.Step, err)
	}
	return nil
}

// FinishRun marks the run as completed.
func (s *Store) FinishRun(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.finishRunStmt.ExecContext(ctx, time.Now().Unix(), runID); err != nil {
		return fmt.Errorf("failed to record run finish: %w", err)
	}
	return nil
}

// Runs returns all recorded runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, rule_fingerprint FROM runs ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var (
			info       RunInfo
			startedAt  int64
			finishedAt sql.NullInt64
		)
		if err := rows.Scan(&info.ID, &startedAt, &finishedAt, &info.RuleFingerprint); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		info.StartedAt = time.Unix(startedAt, 0)
		if finishedAt.Valid {
			info.FinishedAt = time.Unix(finishedAt.Int64, 0)
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// Steps returns the recorded steps of a run in step order.
func (s *Store) Steps(ctx context.Context, runID string) ([]StepCounts, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT step, allowed, denied FROM steps WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query steps: %w", err)
	}
	defer rows.Close()

	var steps []StepCounts
	for rows.Next() {
		var c StepCounts
		if err := rows.Scan(&c.Step, &c.Allowed, &c.Denied); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, c)
	}
	return steps, rows.Err()
}

// Close releases prepared statements and the database handle.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.insertRunStmt, s.finishRunStmt, s.insertStepStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		err = s.db.Close()
	})
	return err
}
