// Package sqlite provides a SQLite-backed implementation of storage.Store
// using Go's standard database/sql package and the mattn/go-sqlite3 driver.
//
// One *sql.DB (a connection pool) is shared by every Store opened on the
// same file. Each operation checks a single connection out of that pool,
// runs its prepared statement(s) and hands the connection back on every
// exit path.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aanand-mishra/records-api/internal/storage"

	// Blank import: registers the "sqlite3" driver with database/sql.
	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMs is how long a writer waits for SQLite's file lock.
const busyTimeoutMs = 5000

// Open opens (creating if needed) the SQLite file at path and verifies
// that it can be reached.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := EnsureDir(path); err != nil {
		return nil, fmt.Errorf("sqlite.Open: %w", err)
	}

	db, err := sql.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: open db: %w", err)
	}

	// An in-memory database lives and dies with its connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.Open: ping: %w", err)
	}
	return db, nil
}

// EnsureDir creates the directory that will hold the database file.
func EnsureDir(path string) error {
	if path == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	return nil
}

// DSN builds the go-sqlite3 data source name for path. The path is
// percent-escaped so '?', '#' and '%' in a file name stay part of it.
// Transactions begin IMMEDIATE: a writer takes the write lock up front and
// waits out the busy timeout instead of failing on a read-to-write upgrade.
func DSN(path string) string {
	escaped := (&url.URL{Path: path}).EscapedPath()
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_txlock=immediate", escaped, busyTimeoutMs)
}

// Store is the database/sql implementation of storage.Store for one entity.
type Store[T any] struct {
	db     *sql.DB
	entity storage.Entity[T]

	insertSQL string
	selectSQL string
	updateSQL string
	deleteSQL string
}

var _ storage.Store[struct{}] = (*Store[struct{}])(nil)

// NewStore creates the entity's table and indexes if they do not exist yet
// and returns a Store bound to them. CREATE ... IF NOT EXISTS is idempotent,
// so this is safe on every startup.
func NewStore[T any](ctx context.Context, db *sql.DB, entity storage.Entity[T]) (*Store[T], error) {
	if err := entity.Validate(); err != nil {
		return nil, fmt.Errorf("sqlite.NewStore: %w", err)
	}

	for _, ddl := range schema(entity) {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("sqlite.NewStore: create %s: %w", entity.Table, err)
		}
	}

	table := quote(entity.Table)
	cols := make([]string, len(entity.Columns))
	sets := make([]string, len(entity.Columns))
	for i, c := range entity.Columns {
		cols[i] = quote(c)
		sets[i] = quote(c) + " = ?"
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	return &Store[T]{
		db:     db,
		entity: entity,
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(cols, ", "), placeholders),
		selectSQL: fmt.Sprintf("SELECT id, %s FROM %s WHERE id = ? LIMIT 1",
			strings.Join(cols, ", "), table),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s WHERE id = ?",
			table, strings.Join(sets, ", ")),
		deleteSQL: fmt.Sprintf("DELETE FROM %s WHERE id = ?", table),
	}, nil
}

// schema returns the table DDL followed by one index per mutable column.
// AUTOINCREMENT keeps SQLite from handing out the id of a deleted row again.
func schema[T any](entity storage.Entity[T]) []string {
	cols := make([]string, 0, len(entity.Columns)+1)
	cols = append(cols, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	for _, c := range entity.Columns {
		cols = append(cols, quote(c)+" TEXT")
	}

	ddl := []string{fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		quote(entity.Table), strings.Join(cols, ",\n\t"))}
	for _, c := range entity.Columns {
		ddl = append(ddl, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			quote("ix_"+entity.Table+"_"+c), quote(entity.Table), quote(c)))
	}
	return ddl
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (s *Store[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return zero, fmt.Errorf("Create %s: acquire conn: %w", s.entity.Table, err)
	}
	defer conn.Close()

	stmt, err := conn.PrepareContext(ctx, s.insertSQL)
	if err != nil {
		return zero, fmt.Errorf("Create %s: prepare: %w", s.entity.Table, err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, s.entity.Values(&rec)...)
	if err != nil {
		return zero, fmt.Errorf("Create %s: exec: %w", s.entity.Table, err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return zero, fmt.Errorf("Create %s: last insert id: %w", s.entity.Table, err)
	}

	*s.entity.ID(&rec) = lastID
	return rec, nil
}

func (s *Store[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return zero, fmt.Errorf("GetByID %s: acquire conn: %w", s.entity.Table, err)
	}
	defer conn.Close()

	stmt, err := conn.PrepareContext(ctx, s.selectSQL)
	if err != nil {
		return zero, fmt.Errorf("GetByID %s: prepare: %w", s.entity.Table, err)
	}
	defer stmt.Close()

	rec, err := s.scan(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, storage.NotFound(s.entity.Table, id)
	}
	if err != nil {
		return zero, fmt.Errorf("GetByID %s: scan: %w", s.entity.Table, err)
	}
	return rec, nil
}

// ReplaceByID runs the update and the read-back in one transaction so the
// returned row is exactly what this call wrote.
func (s *Store[T]) ReplaceByID(ctx context.Context, id int64, rec T) (T, error) {
	var zero T

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return zero, fmt.Errorf("ReplaceByID %s: acquire conn: %w", s.entity.Table, err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("ReplaceByID %s: begin: %w", s.entity.Table, err)
	}
	// No-op once Commit has succeeded.
	defer tx.Rollback()

	args := append(s.entity.Values(&rec), id)
	result, err := tx.ExecContext(ctx, s.updateSQL, args...)
	if err != nil {
		return zero, fmt.Errorf("ReplaceByID %s: exec: %w", s.entity.Table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return zero, fmt.Errorf("ReplaceByID %s: rows affected: %w", s.entity.Table, err)
	}
	if affected == 0 {
		return zero, storage.NotFound(s.entity.Table, id)
	}

	updated, err := s.scan(tx.QueryRowContext(ctx, s.selectSQL, id))
	if err != nil {
		return zero, fmt.Errorf("ReplaceByID %s: scan: %w", s.entity.Table, err)
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("ReplaceByID %s: commit: %w", s.entity.Table, err)
	}
	return updated, nil
}

func (s *Store[T]) DeleteByID(ctx context.Context, id int64) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("DeleteByID %s: acquire conn: %w", s.entity.Table, err)
	}
	defer conn.Close()

	stmt, err := conn.PrepareContext(ctx, s.deleteSQL)
	if err != nil {
		return fmt.Errorf("DeleteByID %s: prepare: %w", s.entity.Table, err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteByID %s: exec: %w", s.entity.Table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteByID %s: rows affected: %w", s.entity.Table, err)
	}
	if affected == 0 {
		return storage.NotFound(s.entity.Table, id)
	}
	return nil
}

// scan reads "id, <columns...>" from row into a fresh record.
func (s *Store[T]) scan(row *sql.Row) (T, error) {
	var rec T
	targets := append([]any{s.entity.ID(&rec)}, s.entity.Targets(&rec)...)
	if err := row.Scan(targets...); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}
