package recorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fireplan/fire-simulator/internal/calculation"
	_ "modernc.org/sqlite"
)

// ErrNoComparison is returned when a run carries nothing to record.
var ErrNoComparison = errors.New("run has no results")

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger calculation.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if logger != nil {
		logger.Debugf("run history opened: %s", dbPath)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id             TEXT PRIMARY KEY,
			created_at     INTEGER NOT NULL,
			command        TEXT NOT NULL,
			config_path    TEXT,
			start_date     TEXT,
			initial_assets TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,

		`CREATE TABLE IF NOT EXISTS scenario_results (
			run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position      INTEGER NOT NULL,
			scenario      TEXT NOT NULL,
			fire_achieved INTEGER NOT NULL,
			fire_month    INTEGER,
			fire_age      REAL,
			ruined        INTEGER NOT NULL,
			ruin_month    INTEGER,
			final_assets  TEXT,
			PRIMARY KEY (run_id, scenario)
		)`,

		`CREATE TABLE IF NOT EXISTS fire_targets (
			run_id             TEXT PRIMARY KEY REFERENCES runs(id) ON DELETE CASCADE,
			annual_expense     TEXT,
			minimum_required   TEXT,
			safety_buffer      TEXT,
			recommended_target TEXT,
			progress_rate      TEXT,
			iterations         INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS monte_carlo_summaries (
			run_id              TEXT PRIMARY KEY REFERENCES runs(id) ON DELETE CASCADE,
			simulations         INTEGER,
			enhanced            INTEGER,
			success_rate        TEXT,
			median_final_assets TEXT,
			p10                 TEXT,
			p90                 TEXT
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RecordRun writes the run and its results in one transaction and returns the run id.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, run *RunRecord) (string, error) {
	if run == nil || run.Comparison == nil {
		return "", ErrNoComparison
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	cmp := run.Comparison
	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id, created_at, command, config_path, start_date, initial_assets)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Unix(), run.Command, run.ConfigPath,
		cmp.StartDate.Format("2006-01-02"), cmp.InitialAssets.StringFixed(0)); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, sc := range cmp.Scenarios {
		if _, err := tx.ExecContext(ctx, `INSERT INTO scenario_results
			(run_id, position, scenario, fire_achieved, fire_month, fire_age, ruined, ruin_month, final_assets)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, sc.Scenario, boolInt(sc.FireAchieved), sc.FireMonth, sc.FireAge,
			boolInt(sc.Ruined), sc.RuinMonth, sc.FinalAssets.StringFixed(0)); err != nil {
			return "", fmt.Errorf("insert scenario %s: %w", sc.Scenario, err)
		}
	}

	if t := cmp.FireTarget; t != nil {
		if _, err := tx.ExecContext(ctx, `INSERT INTO fire_targets
			(run_id, annual_expense, minimum_required, safety_buffer, recommended_target, progress_rate, iterations)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, t.AnnualExpense.StringFixed(0), t.MinimumRequired.StringFixed(0), t.SafetyBuffer.String(),
			t.RecommendedTarget.StringFixed(0), t.ProgressRate.StringFixed(4), t.Iterations); err != nil {
			return "", fmt.Errorf("insert fire target: %w", err)
		}
	}

	if mc := cmp.MonteCarlo; mc != nil {
		if _, err := tx.ExecContext(ctx, `INSERT INTO monte_carlo_summaries
			(run_id, simulations, enhanced, success_rate, median_final_assets, p10, p90)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, mc.NumSimulations, boolInt(mc.Enhanced), mc.SuccessRate.StringFixed(4),
			mc.MedianFinalAssets.StringFixed(0), mc.PercentileRanges.P10.StringFixed(0),
			mc.PercentileRanges.P90.StringFixed(0)); err != nil {
			return "", fmt.Errorf("insert monte carlo summary: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs first, at most limit of them (all when limit <= 0).
func (r *SQLiteRecorder) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `SELECT r.id, r.created_at, r.command, r.config_path, r.initial_assets,
			COALESCE(f.recommended_target, ''), COALESCE(m.success_rate, '')
		FROM runs r
		LEFT JOIN fire_targets f ON f.run_id = r.id
		LEFT JOIN monte_carlo_summaries m ON m.run_id = r.id
		ORDER BY r.created_at DESC, r.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var created int64
		if err := rows.Scan(&s.ID, &created, &s.Command, &s.ConfigPath, &s.InitialAssets, &s.RecommendedTarget, &s.SuccessRate); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		if out[i].Scenarios, err = r.scenarios(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteRecorder) scenarios(ctx context.Context, runID string) ([]ScenarioRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT scenario, fire_achieved, fire_month, fire_age, ruined, ruin_month, final_assets
		FROM scenario_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer rows.Close()

	var out []ScenarioRow
	for rows.Next() {
		var s ScenarioRow
		var fire, ruined int
		if err := rows.Scan(&s.Scenario, &fire, &s.FireMonth, &s.FireAge, &ruined, &s.RuinMonth, &s.FinalAssets); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		s.FireAchieved, s.Ruined = fire == 1, ruined == 1
		out = append(out, s)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
