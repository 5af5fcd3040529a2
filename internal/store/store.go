package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"takt/internal/config"
	"takt/internal/uph"
)

// ErrRunNotFound indicates the referenced run does not exist.
var ErrRunNotFound = errors.New("run not found")

// Store manages UPH persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the takt database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath opens the database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// BeginRun records the start of a calculation run.
func (s *Store) BeginRun(ctx context.Context, id, source string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, status, started_at) VALUES (?, ?, ?, ?)`,
		id, source, RunRunning, timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// CompleteRun marks a run finished and records its counters.
func (s *Store) CompleteRun(ctx context.Context, id string, stats RunStats) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, cycles_in = ?, summaries_out = ?,
            records_skipped = ?, outliers_filtered = ? WHERE id = ?`,
		RunCompleted, timestamp,
		stats.CyclesIn, stats.SummariesOut, stats.RecordsSkipped, stats.OutliersFiltered,
		id,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return requireRunUpdated(res, id)
}

// FailRun marks a run failed with the given cause. The summary table is left
// untouched; the previous result set remains current.
func (s *Store) FailRun(ctx context.Context, id string, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, error = ? WHERE id = ?`,
		RunFailed, timestamp, message, id,
	)
	if err != nil {
		return fmt.Errorf("fail run: %w", err)
	}
	return requireRunUpdated(res, id)
}

func requireRunUpdated(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// ReplaceSummaries atomically swaps the entire summary table for the run's
// result set. Replacing with an empty slice is valid: a run that found no
// survivable input clears the table rather than leaving stale rows behind.
func (s *Store) ReplaceSummaries(ctx context.Context, runID string, summaries []uph.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM uph_summaries`); err != nil {
		return fmt.Errorf("clear summaries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO uph_summaries (
            operator, work_center, routing, operation,
            units_per_hour, observations, total_quantity, total_hours,
            data_source, run_id, computed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	for _, summary := range summaries {
		if _, err := stmt.ExecContext(ctx,
			summary.Operator,
			summary.WorkCenter,
			summary.Routing,
			summary.Operation,
			summary.UnitsPerHour,
			summary.Observations,
			summary.TotalQuantity,
			summary.TotalHours,
			summary.DataSource,
			runID,
			timestamp,
		); err != nil {
			return fmt.Errorf("insert summary for %s/%s/%s: %w",
				summary.Operator, summary.WorkCenter, summary.Routing, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// ListSummaries returns stored summaries matching the filter in stable
// (operator, work center, routing) order.
func (s *Store) ListSummaries(ctx context.Context, filter SummaryFilter) ([]SummaryRecord, error) {
	query := `SELECT id, operator, work_center, routing, operation,
        units_per_hour, observations, total_quantity, total_hours,
        data_source, run_id, computed_at
        FROM uph_summaries`
	var clauses []string
	var args []any
	if filter.Operator != "" {
		clauses = append(clauses, "operator = ?")
		args = append(args, filter.Operator)
	}
	if filter.WorkCenter != "" {
		clauses = append(clauses, "work_center = ?")
		args = append(args, filter.WorkCenter)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY operator, work_center, routing"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var records []SummaryRecord
	for rows.Next() {
		var rec SummaryRecord
		var computedAt string
		if err := rows.Scan(
			&rec.ID, &rec.Operator, &rec.WorkCenter, &rec.Routing, &rec.Operation,
			&rec.UnitsPerHour, &rec.Observations, &rec.TotalQuantity, &rec.TotalHours,
			&rec.DataSource, &rec.RunID, &computedAt,
		); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		rec.ComputedAt = parseTimestamp(computedAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return records, nil
}

// LatestRun returns the most recently started run, or nil when none exist.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// ListRuns returns run history, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, status, started_at, finished_at,
            cycles_in, summaries_out, records_skipped, outliers_filtered, error
        FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt string
		var finishedAt sql.NullString
		var errMessage sql.NullString
		if err := rows.Scan(
			&run.ID, &run.Source, &run.Status, &startedAt, &finishedAt,
			&run.CyclesIn, &run.SummariesOut, &run.RecordsSkipped, &run.OutliersFiltered,
			&errMessage,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(startedAt)
		if finishedAt.Valid {
			finished := parseTimestamp(finishedAt.String)
			run.FinishedAt = &finished
		}
		if errMessage.Valid {
			run.Error = errMessage.String
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
