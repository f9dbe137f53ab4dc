// Package rowstore is the system-of-record boundary: one row per issue,
// holding the issue's full process document as a single serialized value
// plus an integer version for optimistic concurrency.
package rowstore

import (
	"context"
	"time"
)

// Row is one stored issue.
type Row struct {
	ID        string
	Label     string
	Version   int64
	Doc       []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the issue row store.
//
// WriteCell is a compare-and-swap: callers pass the version observed when
// they read the row, and the write fails with apperr.ErrConflict if the row
// has moved since. The retry contract is the caller's: re-read, re-apply the
// mutation, write again. Read failures wrap apperr.ErrStorage and are safe
// to retry; write failures are surfaced immediately.
type Store interface {
	ReadRows(ctx context.Context) ([]Row, error)
	ReadRow(ctx context.Context, label string) (Row, error)
	AppendRow(ctx context.Context, label string, doc []byte) (Row, error)
	WriteCell(ctx context.Context, label string, version int64, doc []byte) error
	Close() error
}
