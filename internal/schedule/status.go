package schedule

import "time"

// Status is the live state of a process instance, derived on every read.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDelayed    Status = "delayed"
	StatusCompleted  Status = "completed"
)

// Client-facing confirmation statuses (先方確認ステータス).
const (
	ClientNotSent  = "未送付"
	ClientSent     = "確認送付"
	ClientWaiting  = "確認待ち"
	ClientOK       = "確認OK"
	ClientWorking  = "制作中"
	ClientInternal = "内部チェック"
)

// ResolveStatus derives the status of one process instance. Deterministic
// given today; never touches storage.
func ResolveStatus(iss *Issue, inst *Instance, today time.Time) Status {
	if inst.Kind == KindConfirmation {
		c := inst.Confirm
		if c != nil {
			if c.FinalDate != nil {
				return StatusCompleted
			}
			if len(c.Drafts) > 0 {
				return StatusInProgress
			}
		}
		return compareToPlan(iss, inst, today)
	}
	if inst.Actual != nil {
		return StatusCompleted
	}
	return compareToPlan(iss, inst, today)
}

func compareToPlan(iss *Issue, inst *Instance, today time.Time) Status {
	if inst.Planned == nil || inst.Planned.IsZero() {
		return StatusNotStarted
	}
	plan := PlannedTime(iss.Year, time.Month(iss.Month), *inst.Planned)
	switch d := DaysBetween(plan, today); {
	case d > 0:
		return StatusDelayed
	case d == 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// ClientStatus maps a confirmation record onto the client-facing status
// field shown on the board.
func ClientStatus(c *Confirmation) string {
	if c == nil || len(c.Drafts) == 0 {
		return ClientNotSent
	}
	if c.FinalDate != nil {
		return ClientOK
	}
	last := c.Drafts[len(c.Drafts)-1]
	switch {
	case last.Status == DraftOK:
		return ClientOK
	case last.RevisionDate != nil:
		// Revision went back out; waiting on the client again.
		return ClientWaiting
	default:
		return ClientWorking
	}
}
