package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one recorded split.
type Run struct {
	ID             int64
	RunID          string
	InputPath      string
	DescriptorPath string
	OutputDir      string
	Title          string
	TrackCount     int
	TotalSeconds   int64
	Status         string
	ErrorKind      string
	ErrorMessage   string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Elapsed returns the wall time the run took.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond

	// Fixed-width so rows sort lexically by time.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts run and returns it with its row id populated.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if strings.TrimSpace(run.RunID) == "" {
		return Run{}, errors.New("run id is required")
	}
	if run.Status == "" {
		run.Status = StatusSucceeded
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}

	var res sql.Result
	err := retryOnBusy(ensureContext(ctx), func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ensureContext(ctx), `INSERT INTO runs (
            run_id, input_path, descriptor_path, output_dir, title,
            track_count, total_seconds, status, error_kind, error_message,
            started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID,
			run.InputPath,
			run.DescriptorPath,
			run.OutputDir,
			nullableString(run.Title),
			run.TrackCount,
			run.TotalSeconds,
			run.Status,
			nullableString(run.ErrorKind),
			nullableString(run.ErrorMessage),
			run.StartedAt.UTC().Format(timestampLayout),
			run.FinishedAt.UTC().Format(timestampLayout),
		)
		return execErr
	})
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("fetch run id: %w", err)
	}
	run.ID = id
	return run, nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, run_id, input_path, descriptor_path, output_dir, title,
        track_count, total_seconds, status, error_kind, error_message,
        started_at, finished_at
        FROM runs ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run                     Run
		title, errKind, errMsg  sql.NullString
		startedRaw, finishedRaw string
	)
	if err := rows.Scan(
		&run.ID,
		&run.RunID,
		&run.InputPath,
		&run.DescriptorPath,
		&run.OutputDir,
		&title,
		&run.TrackCount,
		&run.TotalSeconds,
		&run.Status,
		&errKind,
		&errMsg,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Title = title.String
	run.ErrorKind = errKind.String
	run.ErrorMessage = errMsg.String
	run.StartedAt = parseTimestamp(startedRaw)
	run.FinishedAt = parseTimestamp(finishedRaw)
	return run, nil
}

func parseTimestamp(raw string) time.Time {
	ts, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
