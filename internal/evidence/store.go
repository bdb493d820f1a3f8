package evidence

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pkarpov/structgate/internal/model"
	"github.com/pkarpov/structgate/internal/resistance"
	"github.com/pkarpov/structgate/internal/sweep"
)

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_label   TEXT NOT NULL,
    g           REAL NOT NULL,
    a           REAL NOT NULL,
    c           REAL NOT NULL,
    score       REAL NOT NULL,
    effective   REAL NOT NULL,
    status      TEXT NOT NULL,
    permission  REAL NOT NULL,
    risk        REAL NOT NULL,
    reason      TEXT NOT NULL,
    config_hash TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sweeps (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_label   TEXT NOT NULL,
    grid_n      INTEGER NOT NULL,
    points      INTEGER NOT NULL,
    tau         REAL NOT NULL,
    band        REAL NOT NULL,
    deny        INTEGER NOT NULL,
    abstain     INTEGER NOT NULL,
    allow       INTEGER NOT NULL,
    violations  INTEGER NOT NULL,
    config_hash TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sequence_steps (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    run_label  TEXT NOT NULL,
    strategy   TEXT NOT NULL,
    step       INTEGER NOT NULL,
    g          REAL NOT NULL,
    a          REAL NOT NULL,
    c          REAL NOT NULL,
    score      REAL NOT NULL,
    effective  REAL NOT NULL,
    s_before   REAL NOT NULL,
    s_after    REAL NOT NULL,
    status     TEXT NOT NULL,
    risk       REAL NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evaluations_label ON evaluations(run_label);
CREATE INDEX IF NOT EXISTS idx_sequence_label ON sequence_steps(run_label, step);
`

// Store accumulates gate outcomes across runs in SQLite. The driver is
// the caller's concern; commands blank-import modernc.org/sqlite and
// pass an opened *sql.DB.
type Store struct {
	db *sql.DB
}

// NewStore initializes the evidence tables and returns a Store.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init evidence schema: %w", err)
	}
	return &Store{db: db}, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// RecordEvaluation persists one gate outcome under a run label.
func (s *Store) RecordEvaluation(label string, t model.Triple, res model.Result, configHash string) error {
	_, err := s.db.Exec(`
		INSERT INTO evaluations
		(run_label, g, a, c, score, effective, status, permission, risk, reason, config_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		label, t.G, t.A, t.C,
		res.Score, res.Effective, string(res.Status),
		res.Permission, res.Risk, string(res.Reason),
		configHash, now(),
	)
	return err
}

// RecordSweep persists the condensed outcome of one cube sweep.
func (s *Store) RecordSweep(label string, rep *sweep.Report, configHash string) error {
	_, err := s.db.Exec(`
		INSERT INTO sweeps
		(run_label, grid_n, points, tau, band, deny, abstain, allow, violations, config_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		label, rep.GridN, rep.Points,
		rep.Params.Tau, rep.Params.Band,
		rep.Counts[model.Deny], rep.Counts[model.Abstain], rep.Counts[model.Allow],
		rep.Violations, configHash, now(),
	)
	return err
}

// RecordSequence persists every step of one sequence run.
func (s *Store) RecordSequence(label, strategy string, steps []resistance.Step) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO sequence_steps
		(run_label, strategy, step, g, a, c, score, effective, s_before, s_after, status, risk, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	ts := now()
	for _, st := range steps {
		if _, err := stmt.Exec(
			label, strategy, st.Index,
			st.Input.G, st.Input.A, st.Input.C,
			st.Result.Score, st.Result.Effective,
			st.Before, st.After,
			string(st.Result.Status), st.Result.Risk, ts,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// CountEvaluations returns the number of stored evaluations for a run
// label; empty label counts everything.
func (s *Store) CountEvaluations(label string) (int, error) {
	var n int
	var err error
	if label == "" {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM evaluations`).Scan(&n)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM evaluations WHERE run_label = ?`, label).Scan(&n)
	}
	return n, err
}
