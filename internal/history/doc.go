// Package history persists one row per split run in a local SQLite database
// so `tracksplit history` can list past runs with their outcome.
//
// The store is opt-in (history.enabled) and lives at history.path, which
// defaults to <data_dir>/history.db. The schema version lives in PRAGMA
// user_version; a database with a different version is rejected with
// ErrSchemaMismatch rather than migrated.
package history
