package history

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// runsSchemaVersion is stored in PRAGMA user_version. Bump it when the runs
// table changes shape.
const runsSchemaVersion = 1

// ErrSchemaMismatch reports a history database written by a different
// tracksplit release.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read history schema version: %w", err)
	}
	switch version {
	case runsSchemaVersion:
		return nil
	case 0:
		return s.createRunsTable(ctx)
	default:
		return fmt.Errorf("%w: %s has version %d, tracksplit expects %d; move the file aside or set history.path to a new location",
			ErrSchemaMismatch, s.path, version, runsSchemaVersion)
	}
}

func (s *Store) createRunsTable(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", runsSchemaVersion)); err != nil {
		return fmt.Errorf("record history schema version: %w", err)
	}
	return tx.Commit()
}
