package api

import (
	"fmt"
	"time"

	"github.com/ayasato/gekkan/internal/schedule"
)

// dateLayout is the wire form of calendar dates in request bodies.
const dateLayout = "2006-01-02"

// CreateIssueRequest is the request body for creating an issue.
type CreateIssueRequest struct {
	PublishDate string `json:"publish_date" example:"2025-12-01" validate:"required"`
}

// UpdatePlannedRequest is the request body for replacing a planned date.
type UpdatePlannedRequest struct {
	Planned string `json:"planned" example:"10/30" validate:"required"`
}

// UpdateActualRequest is the request body for logging a completion date.
type UpdateActualRequest struct {
	Actual string `json:"actual" example:"2025-10-29" validate:"required"`
}

// DraftRequest is one confirmation draft in wire form.
type DraftRequest struct {
	Version      int    `json:"version" example:"1"`
	SentDate     string `json:"sent_date" example:"2025-11-04" validate:"required"`
	Status       string `json:"status" example:"needs_revision" validate:"required"`
	RevisionDate string `json:"revision_date,omitempty" example:"2025-11-06"`
	Notes        string `json:"notes,omitempty" example:"ロゴ差し替え"`
}

// AdvanceConfirmationRequest is the request body for advancing a
// confirmation process.
type AdvanceConfirmationRequest struct {
	Action  string        `json:"action" example:"add_draft" validate:"required"`
	Version int           `json:"version,omitempty" example:"1"`
	Draft   *DraftRequest `json:"draft,omitempty"`
}

func (d *DraftRequest) toDraft() (schedule.Draft, error) {
	sent, err := time.Parse(dateLayout, d.SentDate)
	if err != nil {
		return schedule.Draft{}, fmt.Errorf("bad sent_date %q", d.SentDate)
	}
	out := schedule.Draft{
		Version:  d.Version,
		SentDate: sent,
		Status:   schedule.DraftStatus(d.Status),
		Notes:    d.Notes,
	}
	if d.RevisionDate != "" {
		rev, err := time.Parse(dateLayout, d.RevisionDate)
		if err != nil {
			return schedule.Draft{}, fmt.Errorf("bad revision_date %q", d.RevisionDate)
		}
		out.RevisionDate = &rev
	}
	return out, nil
}
