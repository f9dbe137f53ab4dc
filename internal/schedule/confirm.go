package schedule

import (
	"fmt"
	"time"

	"github.com/ayasato/gekkan/internal/apperr"
)

// DraftStatus is the client's recorded response to one confirmation draft.
type DraftStatus string

const (
	DraftOK            DraftStatus = "OK"
	DraftNeedsRevision DraftStatus = "needs_revision"
)

// Draft is one versioned submission in a confirmation cycle.
type Draft struct {
	Version      int         `json:"version"`
	SentDate     time.Time   `json:"sent_date"`
	Status       DraftStatus `json:"status"`
	RevisionDate *time.Time  `json:"revision_date,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

// Confirmation is the versioned draft/approval record owned by a
// confirmation-kind process instance. Drafts are kept in append order;
// FinalDate and FinalVersion are set only by Finalize.
type Confirmation struct {
	Drafts       []Draft    `json:"drafts"`
	FinalDate    *time.Time `json:"final_date,omitempty"`
	FinalVersion int        `json:"final_version,omitempty"`
}

// NextVersion returns the version the next appended draft should carry:
// the current maximum plus one, starting at 1.
func (c *Confirmation) NextVersion() int {
	max := 0
	for _, d := range c.Drafts {
		if d.Version > max {
			max = d.Version
		}
	}
	return max + 1
}

// AddDraft appends a draft as supplied. The version is the caller's intent
// and is not renumbered here; use NextVersion to allocate one.
func (c *Confirmation) AddDraft(d Draft) error {
	if d.Status != DraftOK && d.Status != DraftNeedsRevision {
		return fmt.Errorf("%w: status %q", apperr.ErrInvalidDraft, d.Status)
	}
	if d.Version < 1 {
		return fmt.Errorf("%w: version must be >= 1", apperr.ErrInvalidDraft)
	}
	c.Drafts = append(c.Drafts, d)
	return nil
}

// UpdateDraft replaces the draft holding the given version in place. The
// draft keeps its slot in the list, so append order is preserved.
func (c *Confirmation) UpdateDraft(version int, d Draft) error {
	if d.Status != DraftOK && d.Status != DraftNeedsRevision {
		return fmt.Errorf("%w: status %q", apperr.ErrInvalidDraft, d.Status)
	}
	for i := range c.Drafts {
		if c.Drafts[i].Version == version {
			d.Version = version
			c.Drafts[i] = d
			return nil
		}
	}
	return fmt.Errorf("%w: version %d", apperr.ErrDraftNotFound, version)
}

// Finalize marks the confirmation approved, deriving the final date and
// version from the last appended draft. Append order is treated as
// chronology, not the highest version number. Re-invoking re-derives from
// whatever the last draft is at that point.
func (c *Confirmation) Finalize() error {
	if len(c.Drafts) == 0 {
		return apperr.ErrNoDrafts
	}
	last := c.Drafts[len(c.Drafts)-1]
	final := last.SentDate
	c.FinalDate = &final
	c.FinalVersion = last.Version
	return nil
}
