package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const table = "records"

// SQLiteStore keeps all records as rows of one table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	const schema = `CREATE TABLE IF NOT EXISTS records (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads a record.
func (s *SQLiteStore) Load(ctx context.Context, name string) ([]string, error) {
	query, args, err := sq.Select("body").From(table).Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	var body string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading record %s: %w", name, err)
	}
	return splitLines(body), nil
}

// Save inserts or replaces a record.
func (s *SQLiteStore) Save(ctx context.Context, name string, lines []string) error {
	query, args, err := sq.Insert(table).
		Columns("name", "body").
		Values(name, joinLines(lines)).
		Suffix("ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("saving record %s: %w", name, err)
	}
	return nil
}

// Rename moves a record inside one transaction.
func (s *SQLiteStore) Rename(ctx context.Context, from, to string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	del, delArgs, err := sq.Delete(table).Where(sq.Eq{"name": to}).ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
		return fmt.Errorf("clearing record %s: %w", to, err)
	}

	upd, updArgs, err := sq.Update(table).
		Set("name", to).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"name": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	res, err := tx.ExecContext(ctx, upd, updArgs...)
	if err != nil {
		return fmt.Errorf("renaming record %s to %s: %w", from, to, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(from)
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
