package schedule

import "time"

// Kind classifies how a process completes: by logging an actual date, or by
// running the client confirmation cycle to a finalize.
type Kind string

const (
	KindDated        Kind = "dated"
	KindConfirmation Kind = "confirmation"
)

// Instance is the per-issue runtime record of one production process.
// Exactly one of Actual (dated kind) or Confirm (confirmation kind) is ever
// populated.
type Instance struct {
	Process string
	Kind    Kind
	Planned *MonthDay
	Actual  *time.Time
	Confirm *Confirmation
}

// Issue is one monthly edition of the magazine, the top-level scheduling
// unit. It owns exactly one Instance per defined process.
type Issue struct {
	Year      int
	Month     int
	Processes map[string]*Instance
}

// Label returns the edition label, e.g. "2025年12月号".
func (iss *Issue) Label() string {
	return IssueLabel(time.Date(iss.Year, time.Month(iss.Month), 1, 0, 0, 0, 0, time.UTC))
}

// Folder returns the archive folder name, e.g. "2025_12".
func (iss *Issue) Folder() string {
	return IssueFolder(time.Date(iss.Year, time.Month(iss.Month), 1, 0, 0, 0, 0, time.UTC))
}

// Completed reports whether the named process is done: actual date logged
// for dated processes, confirmation finalized for confirmation processes.
// Unknown process ids are never completed.
func (iss *Issue) Completed(id string) bool {
	inst, ok := iss.Processes[id]
	if !ok {
		return false
	}
	if inst.Kind == KindConfirmation {
		return inst.Confirm != nil && inst.Confirm.FinalDate != nil
	}
	return inst.Actual != nil
}
