package rowstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/ayasato/gekkan/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS issues (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL UNIQUE,
	version    INTEGER NOT NULL DEFAULT 1,
	doc        TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_issues_label ON issues(label);
`

// DB implements Store backed by SQLite.
type DB struct {
	conn *sql.DB
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("rowstore: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("rowstore: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("rowstore: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// ReadRows returns every issue row in one batched read, oldest first.
func (db *DB) ReadRows(ctx context.Context) ([]Row, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, label, version, doc, created_at, updated_at FROM issues ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("rowstore: read rows: %w (%w)", err, apperr.ErrStorage)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var doc string
		if err := rows.Scan(&r.ID, &r.Label, &r.Version, &doc, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("rowstore: scan row: %w (%w)", err, apperr.ErrStorage)
		}
		r.Doc = []byte(doc)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rowstore: read rows: %w (%w)", err, apperr.ErrStorage)
	}
	return out, nil
}

// ReadRow returns the row for one issue label.
func (db *DB) ReadRow(ctx context.Context, label string) (Row, error) {
	var r Row
	var doc string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, label, version, doc, created_at, updated_at FROM issues WHERE label = ?`, label).
		Scan(&r.ID, &r.Label, &r.Version, &doc, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Row{}, fmt.Errorf("rowstore: issue %q: %w", label, apperr.ErrNotFound)
	}
	if err != nil {
		return Row{}, fmt.Errorf("rowstore: read row %q: %w (%w)", label, err, apperr.ErrStorage)
	}
	r.Doc = []byte(doc)
	return r, nil
}

// AppendRow inserts a new issue row at version 1. A label collision is
// reported as apperr.ErrDuplicate.
func (db *DB) AppendRow(ctx context.Context, label string, doc []byte) (Row, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO issues (id, label, version, doc, created_at, updated_at) VALUES (?, ?, 1, ?, ?, ?)`,
		id, label, string(doc), now, now)
	if err != nil {
		var serr sqlite3.Error
		if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return Row{}, fmt.Errorf("rowstore: issue %q: %w", label, apperr.ErrDuplicate)
		}
		return Row{}, fmt.Errorf("rowstore: append row %q: %w", label, err)
	}
	return Row{ID: id, Label: label, Version: 1, Doc: doc, CreatedAt: now, UpdatedAt: now}, nil
}

// WriteCell replaces the issue document if and only if the stored version
// still matches the one the caller read. On a mismatch it returns
// apperr.ErrConflict; the caller re-reads and retries.
func (db *DB) WriteCell(ctx context.Context, label string, version int64, doc []byte) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE issues SET doc = ?, version = version + 1, updated_at = ? WHERE label = ? AND version = ?`,
		string(doc), time.Now().UTC(), label, version)
	if err != nil {
		return fmt.Errorf("rowstore: write cell %q: %w", label, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rowstore: write cell %q: %w", label, err)
	}
	if n == 0 {
		var exists int
		if scanErr := db.conn.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM issues WHERE label = ?`, label).Scan(&exists); scanErr == nil && exists == 0 {
			return fmt.Errorf("rowstore: issue %q: %w", label, apperr.ErrNotFound)
		}
		return fmt.Errorf("rowstore: issue %q at version %d: %w", label, version, apperr.ErrConflict)
	}
	return nil
}
