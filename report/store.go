// Package report persists cross-validation runs and renders their fold scores.
package report

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/YuminosukeSato/seqlearn/core/params"
	"github.com/YuminosukeSato/seqlearn/crossval"
	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL,
	algorithm  TEXT    NOT NULL,
	params     TEXT    NOT NULL,
	k          INTEGER NOT NULL,
	workers    INTEGER NOT NULL,
	score      REAL    NOT NULL,
	mean_score REAL    NOT NULL,
	std_score  REAL    NOT NULL,
	elapsed_ns INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS folds (
	run_id        INTEGER NOT NULL REFERENCES runs(id),
	fold          INTEGER NOT NULL,
	train_samples INTEGER NOT NULL,
	test_samples  INTEGER NOT NULL,
	score         REAL    NOT NULL,
	train_ns      INTEGER NOT NULL,
	eval_ns       INTEGER NOT NULL,
	PRIMARY KEY (run_id, fold)
);`

// Run is a stored cross-validation run.
type Run struct {
	ID        int64
	Name      string
	Algorithm string
	Params    string
	K         int
	Workers   int
	Score     float64
	MeanScore float64
	StdScore  float64
	Elapsed   time.Duration
	CreatedAt time.Time
}

// FoldRecord is a stored fold of a run.
type FoldRecord struct {
	RunID        int64
	Fold         int
	TrainSamples int
	TestSamples  int
	Score        float64
	TrainTime    time.Duration
	EvalTime     time.Duration
}

// Store keeps runs in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the database at path and ensures the schema exists.
// Use ":memory:" for a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open run store %q", path)
	}
	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create run store schema")
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enable foreign keys")
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores res with its folds in one transaction and returns the run id.
func SaveRun[M crossval.Metric[M]](ctx context.Context, s *Store, name string, p *params.TrainingParameters, res *crossval.Result[M]) (int64, error) {
	if res == nil {
		return 0, errors.NewValidationError("result", "must not be nil", nil)
	}
	if p == nil {
		p = params.Defaults()
	}
	// SQLite stores NaN as NULL
	if err := errors.CheckScalar("report.SaveRun", res.Metric.Value()); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	out, err := tx.ExecContext(ctx, `
		INSERT INTO runs (name, algorithm, params, k, workers, score, mean_score, std_score, elapsed_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		name, p.Algorithm(), p.String(), res.K, res.Workers,
		res.Metric.Value(), res.MeanScore(), res.StdScore(),
		int64(res.Elapsed), time.Now().UnixNano(),
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert run")
	}
	id, err := out.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "read run id")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO folds (run_id, fold, train_samples, test_samples, score, train_ns, eval_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "prepare fold insert")
	}
	defer stmt.Close()
	for _, f := range res.Folds {
		if _, err := stmt.ExecContext(ctx, id, f.Index, f.TrainSamples, f.TestSamples,
			f.Score(), int64(f.TrainTime), int64(f.EvalTime)); err != nil {
			return 0, errors.Wrapf(err, "insert fold %d", f.Index)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit run")
	}
	return id, nil
}

// ListRuns returns every stored run, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, algorithm, params, k, workers, score, mean_score, std_score, elapsed_ns, created_at
		FROM runs ORDER BY id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                  Run
			elapsed, createdAt int64
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Algorithm, &r.Params, &r.K, &r.Workers,
			&r.Score, &r.MeanScore, &r.StdScore, &elapsed, &createdAt); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		r.Elapsed = time.Duration(elapsed)
		r.CreatedAt = time.Unix(0, createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Folds returns the folds of run id in fold order.
func (s *Store) Folds(ctx context.Context, id int64) ([]FoldRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, fold, train_samples, test_samples, score, train_ns, eval_ns
		FROM folds WHERE run_id = ? ORDER BY fold ASC`, id)
	if err != nil {
		return nil, errors.Wrap(err, "query folds")
	}
	defer rows.Close()

	var folds []FoldRecord
	for rows.Next() {
		var (
			f               FoldRecord
			trainNs, evalNs int64
		)
		if err := rows.Scan(&f.RunID, &f.Fold, &f.TrainSamples, &f.TestSamples, &f.Score, &trainNs, &evalNs); err != nil {
			return nil, errors.Wrap(err, "scan fold")
		}
		f.TrainTime = time.Duration(trainNs)
		f.EvalTime = time.Duration(evalNs)
		folds = append(folds, f)
	}
	return folds, rows.Err()
}

// DeleteRun removes run id and its folds.
func (s *Store) DeleteRun(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM folds WHERE run_id = ?`, id); err != nil {
		return errors.Wrapf(err, "delete folds of run %d", id)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete run %d", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewValidationError("id", "no such run", id)
	}
	return nil
}
