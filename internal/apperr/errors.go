// Package apperr defines the sentinel errors shared across the application.
package apperr

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("version conflict")
	ErrStorage    = errors.New("storage failure")
)

// Confirmation state-machine violations. User-facing validation errors,
// not system faults.
var (
	ErrNoDrafts      = errors.New("no drafts yet")
	ErrDraftNotFound = errors.New("draft not found")
	ErrInvalidDraft  = errors.New("invalid draft")
)
