package schedule

import (
	"testing"
	"time"
)

func datedInst(id string) *Instance { return &Instance{Process: id, Kind: KindDated} }

func complete(inst *Instance, y int, m time.Month, d int) {
	actual := date(y, m, d)
	inst.Actual = &actual
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func TestReadyRespectsPrerequisites(t *testing.T) {
	prereqs := map[string][]string{"X-2": {"X-1"}}
	iss := decIssue(map[string]*Instance{
		"X-1": datedInst("X-1"),
		"X-2": datedInst("X-2"),
	})

	ready := Ready(prereqs, iss)
	if !contains(ready, "X-1") {
		t.Error("X-1 should be ready (no prerequisites)")
	}
	if contains(ready, "X-2") {
		t.Error("X-2 should not be ready while X-1 is open")
	}

	complete(iss.Processes["X-1"], 2025, time.November, 1)
	ready = Ready(prereqs, iss)
	if contains(ready, "X-1") {
		t.Error("completed X-1 should not be listed as ready")
	}
	if !contains(ready, "X-2") {
		t.Error("X-2 should be ready once X-1 is completed")
	}
}

func TestReadyMonotonic(t *testing.T) {
	prereqs := map[string][]string{
		"X-2": {"X-1"},
		"X-3": {"X-1", "X-2"},
	}
	iss := decIssue(map[string]*Instance{
		"X-1": datedInst("X-1"),
		"X-2": datedInst("X-2"),
		"X-3": datedInst("X-3"),
	})

	before := Ready(prereqs, iss)
	complete(iss.Processes["X-1"], 2025, time.November, 1)
	after := Ready(prereqs, iss)

	// Completing a prerequisite may only add to the ready set (minus the
	// completed process itself).
	for _, id := range before {
		if id == "X-1" {
			continue
		}
		if !contains(after, id) {
			t.Errorf("process %s left the ready set after completing a prerequisite", id)
		}
	}
	if !contains(after, "X-2") {
		t.Error("X-2 should have become ready")
	}
}

func TestReadyMissingPrerequisiteInstance(t *testing.T) {
	// A prerequisite with no instance on the issue counts as not completed.
	prereqs := map[string][]string{"X-2": {"X-9"}}
	iss := decIssue(map[string]*Instance{"X-2": datedInst("X-2")})
	if ready := Ready(prereqs, iss); contains(ready, "X-2") {
		t.Error("X-2 should not be ready with an unsatisfiable prerequisite")
	}
}

func TestReadyConfirmationGatesOnFinalize(t *testing.T) {
	prereqs := map[string][]string{"X-2": {"X-1"}}
	conf := &Instance{Process: "X-1", Kind: KindConfirmation, Confirm: &Confirmation{
		Drafts: []Draft{{Version: 1, SentDate: date(2025, time.November, 1), Status: DraftOK}},
	}}
	iss := decIssue(map[string]*Instance{
		"X-1": conf,
		"X-2": datedInst("X-2"),
	})

	if ready := Ready(prereqs, iss); contains(ready, "X-2") {
		t.Error("an unfinalized confirmation must not satisfy a prerequisite")
	}
	if err := conf.Confirm.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if ready := Ready(prereqs, iss); !contains(ready, "X-2") {
		t.Error("X-2 should be ready after the confirmation is finalized")
	}
}

func TestDelayedCountsWholeDays(t *testing.T) {
	iss := decIssue(map[string]*Instance{
		"X-1": {Process: "X-1", Kind: KindDated, Planned: md(11, 1)},
	})
	delays := Delayed(iss, date(2025, time.November, 5))
	if len(delays) != 1 {
		t.Fatalf("delays = %d, want 1", len(delays))
	}
	if delays[0].Process != "X-1" || delays[0].Days != 4 {
		t.Errorf("delay = %+v, want X-1 / 4 days", delays[0])
	}
}

func TestDelayedSkipsUnplannedAndCompleted(t *testing.T) {
	done := datedInst("X-2")
	done.Planned = md(11, 1)
	complete(done, 2025, time.November, 2)

	iss := decIssue(map[string]*Instance{
		"X-1": datedInst("X-1"), // no planned date: never delayed
		"X-2": done,
		"X-3": {Process: "X-3", Kind: KindConfirmation, Planned: md(11, 1)},
	})
	if delays := Delayed(iss, date(2025, time.November, 10)); len(delays) != 0 {
		t.Errorf("delays = %+v, want none", delays)
	}
}

func TestDelayedNotBeforePlannedDate(t *testing.T) {
	iss := decIssue(map[string]*Instance{
		"X-1": {Process: "X-1", Kind: KindDated, Planned: md(11, 5)},
	})
	if delays := Delayed(iss, date(2025, time.November, 5)); len(delays) != 0 {
		t.Errorf("planned-today should not be delayed, got %+v", delays)
	}
	if delays := Delayed(iss, date(2025, time.November, 6)); len(delays) != 1 || delays[0].Days != 1 {
		t.Errorf("one day past plan should be a 1-day delay, got %+v", delays)
	}
}
