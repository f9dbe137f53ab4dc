package schedule

import (
	"testing"
	"time"
)

func decIssue(insts map[string]*Instance) *Issue {
	return &Issue{Year: 2025, Month: 12, Processes: insts}
}

func md(m, d int) *MonthDay { return &MonthDay{Month: m, Day: d} }

func TestResolveStatusDated(t *testing.T) {
	iss := decIssue(nil)
	today := date(2025, time.November, 5)

	actual := date(2025, time.November, 1)
	if got := ResolveStatus(iss, &Instance{Kind: KindDated, Actual: &actual}, today); got != StatusCompleted {
		t.Errorf("with actual: %s, want completed", got)
	}
	if got := ResolveStatus(iss, &Instance{Kind: KindDated}, today); got != StatusNotStarted {
		t.Errorf("no planned: %s, want not_started", got)
	}
	if got := ResolveStatus(iss, &Instance{Kind: KindDated, Planned: md(11, 1)}, today); got != StatusDelayed {
		t.Errorf("past planned: %s, want delayed", got)
	}
	if got := ResolveStatus(iss, &Instance{Kind: KindDated, Planned: md(11, 5)}, today); got != StatusInProgress {
		t.Errorf("planned today: %s, want in_progress", got)
	}
	if got := ResolveStatus(iss, &Instance{Kind: KindDated, Planned: md(11, 20)}, today); got != StatusNotStarted {
		t.Errorf("future planned: %s, want not_started", got)
	}
}

func TestResolveStatusDeterministic(t *testing.T) {
	iss := decIssue(nil)
	inst := &Instance{Kind: KindDated, Planned: md(11, 1)}
	today := date(2025, time.November, 5)
	first := ResolveStatus(iss, inst, today)
	for i := 0; i < 10; i++ {
		if got := ResolveStatus(iss, inst, today); got != first {
			t.Fatalf("status changed between identical calls: %s then %s", first, got)
		}
	}
}

func TestResolveStatusConfirmation(t *testing.T) {
	iss := decIssue(nil)
	today := date(2025, time.November, 5)
	sent := date(2025, time.November, 1)

	final := sent
	done := &Instance{Kind: KindConfirmation, Confirm: &Confirmation{
		Drafts:    []Draft{{Version: 1, SentDate: sent, Status: DraftOK}},
		FinalDate: &final,
	}}
	if got := ResolveStatus(iss, done, today); got != StatusCompleted {
		t.Errorf("finalized: %s, want completed", got)
	}

	awaiting := &Instance{Kind: KindConfirmation, Confirm: &Confirmation{
		Drafts: []Draft{{Version: 1, SentDate: sent, Status: DraftNeedsRevision}},
	}}
	if got := ResolveStatus(iss, awaiting, today); got != StatusInProgress {
		t.Errorf("draft outstanding: %s, want in_progress", got)
	}

	// No record yet: falls back to the planned-date comparison.
	idle := &Instance{Kind: KindConfirmation, Planned: md(11, 20)}
	if got := ResolveStatus(iss, idle, today); got != StatusNotStarted {
		t.Errorf("no record, future plan: %s, want not_started", got)
	}
	late := &Instance{Kind: KindConfirmation, Planned: md(11, 1)}
	if got := ResolveStatus(iss, late, today); got != StatusDelayed {
		t.Errorf("no record, past plan: %s, want delayed", got)
	}
}

func TestClientStatus(t *testing.T) {
	sent := date(2025, time.November, 1)
	rev := date(2025, time.November, 3)

	if got := ClientStatus(nil); got != ClientNotSent {
		t.Errorf("nil record: %q, want %q", got, ClientNotSent)
	}
	if got := ClientStatus(&Confirmation{}); got != ClientNotSent {
		t.Errorf("empty record: %q, want %q", got, ClientNotSent)
	}

	c := &Confirmation{Drafts: []Draft{{Version: 1, SentDate: sent, Status: DraftNeedsRevision}}}
	if got := ClientStatus(c); got != ClientWorking {
		t.Errorf("needs revision: %q, want %q", got, ClientWorking)
	}

	c.Drafts[0].RevisionDate = &rev
	if got := ClientStatus(c); got != ClientWaiting {
		t.Errorf("revision resent: %q, want %q", got, ClientWaiting)
	}

	c.Drafts = append(c.Drafts, Draft{Version: 2, SentDate: rev, Status: DraftOK})
	if got := ClientStatus(c); got != ClientOK {
		t.Errorf("last draft OK: %q, want %q", got, ClientOK)
	}

	if err := c.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if got := ClientStatus(c); got != ClientOK {
		t.Errorf("finalized: %q, want %q", got, ClientOK)
	}
}
