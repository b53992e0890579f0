package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/todo.space/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/todo.space/internal/platform/timeouts"
	"github.com/louisbranch/todo.space/internal/services/todo/storage"
	"github.com/louisbranch/todo.space/internal/services/todo/storage/sqlite/migrations"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Timestamps are stored as Unix milliseconds in UTC.
func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

var errNotConfigured = errors.New("sqlite store is not open")

// Store persists items, users and sessions in one SQLite file.
type Store struct {
	sqlDB *sql.DB
}

var (
	_ storage.ItemStore    = (*Store)(nil)
	_ storage.UserStore    = (*Store)(nil)
	_ storage.SessionStore = (*Store)(nil)
	_ storage.Pinger       = (*Store)(nil)
)

// Open opens or creates the database at path and migrates it to the latest
// schema.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	sqlDB, err := sql.Open("sqlite", dsn(filepath.Clean(path)))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	s := &Store{sqlDB: sqlDB}
	if err := s.init(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if err := s.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := s.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}

// dsn enables foreign keys and WAL, waits up to timeouts.SQLiteBusy on a
// locked database and begins transactions with BEGIN IMMEDIATE.
func dsn(path string) string {
	q := url.Values{}
	for _, pragma := range []string{
		"foreign_keys(1)",
		fmt.Sprintf("busy_timeout(%d)", timeouts.SQLiteBusy.Milliseconds()),
		"journal_mode(WAL)",
		"synchronous(NORMAL)",
	} {
		q.Add("_pragma", pragma)
	}
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// DB exposes the handle for maintenance tooling and tests.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping checks the database answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.sqlDB.PingContext(ctx)
}

// Migrate applies pending embedded migrations and returns their names.
func (s *Store) Migrate(ctx context.Context) ([]string, error) {
	if s == nil || s.sqlDB == nil {
		return nil, errNotConfigured
	}
	return sqlitemigrate.ApplyMigrations(ctx, s.sqlDB, migrations.FS, "")
}

// AppliedMigrations lists recorded migrations by name.
func (s *Store) AppliedMigrations(ctx context.Context) ([]sqlitemigrate.Applied, error) {
	if s == nil || s.sqlDB == nil {
		return nil, errNotConfigured
	}
	return sqlitemigrate.ListApplied(ctx, s.sqlDB)
}

func (s *Store) ready(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	return ctx.Err()
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on column.
func isUniqueViolation(err error, column string) bool {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	if sqliteErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return false
	}
	message := sqliteErr.Error()
	return strings.Contains(message, "UNIQUE") && strings.Contains(message, column)
}
