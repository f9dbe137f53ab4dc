package schedule

import (
	"sort"
	"time"
)

// Ready returns the ids of not-yet-completed processes whose prerequisites
// are all completed. prereqs is the prerequisite map built from the master
// tables (explicit edges plus the per-category data-submission gate). No
// priority is implied by the result; it is sorted by id only for stable
// output.
func Ready(prereqs map[string][]string, iss *Issue) []string {
	var out []string
	for id := range iss.Processes {
		if iss.Completed(id) {
			continue
		}
		ok := true
		for _, pre := range prereqs[id] {
			if !iss.Completed(pre) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Delay reports one overdue process.
type Delay struct {
	Process string   `json:"process_id"`
	Planned MonthDay `json:"planned"`
	Days    int      `json:"delay_days"`
}

// Delayed returns the not-yet-completed dated processes whose planned date
// is strictly before today, with the overdue day count (always >= 1).
// A process with no planned date is never reported: absence of a plan is
// not a delay.
func Delayed(iss *Issue, today time.Time) []Delay {
	var out []Delay
	for id, inst := range iss.Processes {
		if inst.Kind != KindDated || inst.Actual != nil {
			continue
		}
		if inst.Planned == nil || inst.Planned.IsZero() {
			continue
		}
		plan := PlannedTime(iss.Year, time.Month(iss.Month), *inst.Planned)
		if d := DaysBetween(plan, today); d >= 1 {
			out = append(out, Delay{Process: id, Planned: *inst.Planned, Days: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Process < out[j].Process })
	return out
}
