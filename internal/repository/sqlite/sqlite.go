// Package sqlite implements repository.Store on a local SQLite database
// using the modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ecotrack/internal/domain"
	"ecotrack/internal/repository"

	sqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx,
// letting every store method run either standalone or inside Transact.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements repository.Store using SQLite.
type Store struct {
	db *sql.DB
	q  querier
}

var _ repository.Store = (*Store)(nil)

// Open opens (creating if necessary) the database at path and bootstraps
// the schema. The connection pool is capped at one connection: every
// operation is a single-invocation batch job, and a single connection
// keeps in-memory databases coherent as well.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, q: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS repositories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		organization TEXT NOT NULL,
		name TEXT NOT NULL,
		is_plugin_containing_repo BOOLEAN NOT NULL DEFAULT 0,
		status TEXT CHECK(status IN ('not_ported', 'blocked', 'experimental', 'upstream')),
		note TEXT,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		updated_at TEXT NOT NULL DEFAULT (datetime('now')),
		UNIQUE(organization, name)
	);

	CREATE TABLE IF NOT EXISTS artifacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		organization TEXT NOT NULL,
		name TEXT NOT NULL,
		is_plugin BOOLEAN NOT NULL DEFAULT 0,
		repository_id INTEGER,
		subproject TEXT,
		is_published BOOLEAN NOT NULL DEFAULT 1,
		scala_version TEXT,
		status TEXT CHECK(status IN ('not_ported', 'blocked', 'experimental', 'upstream')),
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		updated_at TEXT NOT NULL DEFAULT (datetime('now')),
		FOREIGN KEY (repository_id) REFERENCES repositories(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS repository_plugin_dependencies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		repository_id INTEGER NOT NULL,
		plugin_artifact_id INTEGER NOT NULL,
		version TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		FOREIGN KEY (repository_id) REFERENCES repositories(id) ON DELETE CASCADE,
		FOREIGN KEY (plugin_artifact_id) REFERENCES artifacts(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS artifact_dependencies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dependent_artifact_id INTEGER NOT NULL,
		dependency_artifact_id INTEGER NOT NULL,
		version TEXT NOT NULL,
		scope TEXT NOT NULL DEFAULT 'compile',
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		FOREIGN KEY (dependent_artifact_id) REFERENCES artifacts(id) ON DELETE CASCADE,
		FOREIGN KEY (dependency_artifact_id) REFERENCES artifacts(id) ON DELETE CASCADE
	);

	-- Artifact identity uniqueness is enforced by lookup-before-insert at
	-- the store boundary, not by a constraint: the consolidation pass has
	-- to be able to see and repair duplicates left by the historical
	-- per-version identity schema.
	CREATE INDEX IF NOT EXISTS idx_artifacts_org_name ON artifacts(organization, name);
	CREATE INDEX IF NOT EXISTS idx_artifacts_repository ON artifacts(repository_id);
	CREATE INDEX IF NOT EXISTS idx_plugin_deps_repository ON repository_plugin_dependencies(repository_id);
	CREATE INDEX IF NOT EXISTS idx_artifact_deps_dependent ON artifact_dependencies(dependent_artifact_id);
	CREATE INDEX IF NOT EXISTS idx_artifact_deps_dependency ON artifact_dependencies(dependency_artifact_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Transact runs fn inside a transaction. Nested calls reuse the ambient
// transaction, so consolidation groups and reconciliations compose.
func (s *Store) Transact(ctx context.Context, fn func(repository.Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// wrapErr attaches the operation name and maps SQLite constraint failures
// onto domain.ErrIntegrity so callers can tell invariant breaches apart
// from plain store unavailability.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlitelib.SQLITE_CONSTRAINT {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrIntegrity, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
