// Package scheduleservice composes the master tables, the row store, and
// the archive into the scheduling façade: issue creation, board/readiness/
// delay queries, date updates, and confirmation advancement.
package scheduleservice

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ayasato/gekkan/internal/apperr"
	"github.com/ayasato/gekkan/internal/archive"
	"github.com/ayasato/gekkan/internal/master"
	"github.com/ayasato/gekkan/internal/rowstore"
	"github.com/ayasato/gekkan/internal/schedule"
)

// Publisher receives schedule change notifications. kind is one of
// "issue.created", "process.updated", "confirmation.advanced".
type Publisher interface {
	PublishScheduleEvent(kind, label, processID string)
}

// Service is the scheduling façade. All state lives in the row store and
// the archive; the service itself is safe for concurrent use.
type Service struct {
	store   rowstore.Store
	archive archive.Provider
	masters *master.Holder
	events  Publisher
	logger  *slog.Logger

	// Now is the clock used for status resolution; tests override it.
	Now func() time.Time
}

// NewService creates the façade with its collaborators injected. events may
// be nil when no broadcast surface is wired (tests, MCP mode).
func NewService(store rowstore.Store, arch archive.Provider, masters *master.Holder, events Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		archive: arch,
		masters: masters,
		events:  events,
		logger:  logger,
		Now:     time.Now,
	}
}

// Masters returns the active master tables.
func (s *Service) Masters() *master.Master { return s.masters.Get() }

func (s *Service) publish(kind, label, processID string) {
	if s.events != nil {
		s.events.PublishScheduleEvent(kind, label, processID)
	}
}

// ProvisionFailure records one archive folder that could not be created
// during issue provisioning. Collected per (category, data type); never
// fatal to issue creation.
type ProvisionFailure struct {
	Category string `json:"category"`
	DataType string `json:"data_type"`
	Err      string `json:"error"`
}

// IssueSummary is a list-level view of one issue.
type IssueSummary struct {
	Label     string    `json:"label"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	CreatedAt time.Time `json:"created_at"`
}

// ProcessView is one resolved row on the issue board.
type ProcessView struct {
	Process      string                 `json:"process_id"`
	Name         string                 `json:"name"`
	Category     string                 `json:"category"`
	Kind         schedule.Kind          `json:"kind"`
	Planned      *schedule.MonthDay     `json:"planned,omitempty"`
	Actual       string                 `json:"actual,omitempty"`
	Status       schedule.Status        `json:"status"`
	ClientStatus string                 `json:"client_status,omitempty"`
	Confirm      *schedule.Confirmation `json:"confirmation,omitempty"`
}

// DelayView is one overdue process with its display name.
type DelayView struct {
	schedule.Delay
	Name string `json:"name"`
}

// CreateIssue derives the issue label from the publish date, seeds every
// defined process with its planned date from the deadline master, stores the
// new row, and provisions archive folders for every data-collecting
// category. Folder failures are collected and returned, not fatal: issue
// creation succeeds once the row write succeeds.
func (s *Service) CreateIssue(ctx context.Context, publish time.Time) (*schedule.Issue, []ProvisionFailure, error) {
	m := s.masters.Get()
	label := schedule.IssueLabel(publish)

	iss := &schedule.Issue{
		Year:      publish.Year(),
		Month:     int(publish.Month()),
		Processes: make(map[string]*schedule.Instance, len(m.Processes)),
	}
	for _, p := range m.Processes {
		inst := &schedule.Instance{Process: p.ID, Kind: p.Kind}
		if rule, ok := m.Rule(p.ID); ok {
			md := schedule.PlannedDate(publish, rule.Offset, rule.Day)
			inst.Planned = &md
		}
		iss.Processes[p.ID] = inst
	}

	doc, err := encodeIssue(iss)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.store.AppendRow(ctx, label, doc); err != nil {
		return nil, nil, err
	}

	failures := s.provisionFolders(m, publish)

	s.logger.Info("issue created",
		slog.String("label", label),
		slog.Int("processes", len(iss.Processes)),
		slog.Int("provision_failures", len(failures)))
	s.publish("issue.created", label, "")

	return iss, failures, nil
}

// provisionFolders ensures <category>/<dataType>/<YYYY_MM> exists for every
// data-collecting category. Idempotent per folder.
func (s *Service) provisionFolders(m *master.Master, publish time.Time) []ProvisionFailure {
	folder := schedule.IssueFolder(publish)
	failures := []ProvisionFailure{}
	for _, c := range m.Categories {
		if !c.RequiresData {
			continue
		}
		for _, dt := range c.DataTypes {
			if _, err := s.archive.EnsurePath([]string{c.Name, dt, folder}); err != nil {
				s.logger.Warn("folder provisioning failed",
					slog.String("category", c.ID),
					slog.String("data_type", dt),
					slog.String("error", err.Error()))
				failures = append(failures, ProvisionFailure{Category: c.ID, DataType: dt, Err: err.Error()})
			}
		}
	}
	return failures
}

// ListIssues returns a summary of every issue, oldest first.
func (s *Service) ListIssues(ctx context.Context) ([]IssueSummary, error) {
	rows, err := s.store.ReadRows(ctx)
	if err != nil {
		return nil, err
	}
	m := s.masters.Get()
	out := make([]IssueSummary, 0, len(rows))
	for _, r := range rows {
		iss, decErr := decodeIssue(m, r.Doc, s.logger)
		if decErr != nil {
			s.logger.Warn("skipping undecodable issue row",
				slog.String("label", r.Label), slog.String("error", decErr.Error()))
			continue
		}
		out = append(out, IssueSummary{Label: r.Label, Year: iss.Year, Month: iss.Month, CreatedAt: r.CreatedAt})
	}
	return out, nil
}

// loadIssue fetches an issue in one batched row read. Dependencies and
// statuses are resolved in memory from this single read — never one store
// call per process.
func (s *Service) loadIssue(ctx context.Context, label string) (*schedule.Issue, rowstore.Row, *master.Master, error) {
	m := s.masters.Get()
	row, err := s.store.ReadRow(ctx, label)
	if err != nil {
		return nil, rowstore.Row{}, nil, err
	}
	iss, err := decodeIssue(m, row.Doc, s.logger)
	if err != nil {
		return nil, rowstore.Row{}, nil, err
	}
	return iss, row, m, nil
}

// Board returns every process of an issue with its resolved status, ordered
// by category and sequence.
func (s *Service) Board(ctx context.Context, label string) ([]ProcessView, error) {
	iss, _, m, err := s.loadIssue(ctx, label)
	if err != nil {
		return nil, err
	}
	today := s.Now()
	views := make([]ProcessView, 0, len(iss.Processes))
	for id, inst := range iss.Processes {
		views = append(views, s.viewFor(m, iss, id, inst, today))
	}
	sortViews(views)
	return views, nil
}

func (s *Service) viewFor(m *master.Master, iss *schedule.Issue, id string, inst *schedule.Instance, today time.Time) ProcessView {
	v := ProcessView{
		Process: id,
		Kind:    inst.Kind,
		Planned: inst.Planned,
		Status:  schedule.ResolveStatus(iss, inst, today),
		Confirm: inst.Confirm,
	}
	if p, ok := m.Process(id); ok {
		v.Name = p.Name
		v.Category = p.Category
	}
	if inst.Actual != nil {
		v.Actual = inst.Actual.Format(dateLayout)
	}
	if inst.Kind == schedule.KindConfirmation {
		v.ClientStatus = schedule.ClientStatus(inst.Confirm)
	}
	return v
}

// sortViews orders by category, then numeric sequence within the category.
func sortViews(views []ProcessView) {
	seq := func(id string) int {
		if i := strings.IndexByte(id, '-'); i >= 0 {
			if n, err := strconv.Atoi(id[i+1:]); err == nil {
				return n
			}
		}
		return 0
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Category != views[j].Category {
			return views[i].Category < views[j].Category
		}
		return seq(views[i].Process) < seq(views[j].Process)
	})
}

// ReadyProcesses returns the not-yet-completed processes whose
// prerequisites (including the category data-submission gate) are all
// completed.
func (s *Service) ReadyProcesses(ctx context.Context, label string) ([]ProcessView, error) {
	iss, _, m, err := s.loadIssue(ctx, label)
	if err != nil {
		return nil, err
	}
	today := s.Now()
	ready := schedule.Ready(m.Prereqs(), iss)
	views := make([]ProcessView, 0, len(ready))
	for _, id := range ready {
		views = append(views, s.viewFor(m, iss, id, iss.Processes[id], today))
	}
	sortViews(views)
	return views, nil
}

// DelayedProcesses returns the not-yet-completed dated processes whose
// planned date has passed, with their overdue day counts.
func (s *Service) DelayedProcesses(ctx context.Context, label string) ([]DelayView, error) {
	iss, _, m, err := s.loadIssue(ctx, label)
	if err != nil {
		return nil, err
	}
	delays := schedule.Delayed(iss, s.Now())
	views := make([]DelayView, 0, len(delays))
	for _, d := range delays {
		v := DelayView{Delay: d}
		if p, ok := m.Process(d.Process); ok {
			v.Name = p.Name
		}
		views = append(views, v)
	}
	return views, nil
}

// UpdatePlannedDate replaces one process's planned month/day.
func (s *Service) UpdatePlannedDate(ctx context.Context, label, processID string, md schedule.MonthDay) error {
	return s.mutateInstance(ctx, label, processID, func(inst *schedule.Instance) error {
		inst.Planned = &md
		return nil
	}, "process.updated")
}

// UpdateActualDate logs the completion date of a dated process. Setting is
// monotonic: the date can be corrected but never cleared.
func (s *Service) UpdateActualDate(ctx context.Context, label, processID string, actual time.Time) error {
	return s.mutateInstance(ctx, label, processID, func(inst *schedule.Instance) error {
		if inst.Kind != schedule.KindDated {
			return fmt.Errorf("%w: process %s does not take an actual date", apperr.ErrValidation, processID)
		}
		inst.Actual = &actual
		return nil
	}, "process.updated")
}

// Confirmation actions accepted by AdvanceConfirmation.
const (
	ActionAddDraft    = "add_draft"
	ActionUpdateDraft = "update_draft"
	ActionFinalize    = "finalize"
)

// ConfirmationAction is one advance request against a confirmation record.
type ConfirmationAction struct {
	Action  string
	Version int // target version for update_draft
	Draft   *schedule.Draft
}

// AdvanceConfirmation applies one state-machine transition to a
// confirmation process. The whole record round-trips through its single
// stored cell: read, mutate in memory, compare-and-swap write. A concurrent
// edit surfaces as apperr.ErrConflict and the caller retries.
func (s *Service) AdvanceConfirmation(ctx context.Context, label, processID string, action ConfirmationAction) error {
	return s.mutateInstance(ctx, label, processID, func(inst *schedule.Instance) error {
		if inst.Kind != schedule.KindConfirmation {
			return fmt.Errorf("%w: process %s is not a confirmation process", apperr.ErrValidation, processID)
		}
		if inst.Confirm == nil {
			inst.Confirm = &schedule.Confirmation{}
		}
		c := inst.Confirm
		switch action.Action {
		case ActionAddDraft:
			if action.Draft == nil {
				return fmt.Errorf("%w: draft is required", apperr.ErrValidation)
			}
			d := *action.Draft
			if d.Version == 0 {
				d.Version = c.NextVersion()
			}
			return c.AddDraft(d)
		case ActionUpdateDraft:
			if action.Draft == nil {
				return fmt.Errorf("%w: draft is required", apperr.ErrValidation)
			}
			return c.UpdateDraft(action.Version, *action.Draft)
		case ActionFinalize:
			return c.Finalize()
		default:
			return fmt.Errorf("%w: unknown action %q", apperr.ErrValidation, action.Action)
		}
	}, "confirmation.advanced")
}

// mutateInstance is the shared read-modify-write cycle: one batched read,
// in-memory mutation, CAS write against the version observed at read time.
func (s *Service) mutateInstance(ctx context.Context, label, processID string, mutate func(*schedule.Instance) error, eventKind string) error {
	iss, row, m, err := s.loadIssue(ctx, label)
	if err != nil {
		return err
	}
	if _, ok := m.Process(processID); !ok {
		return fmt.Errorf("process %q: %w", processID, apperr.ErrNotFound)
	}
	inst, ok := iss.Processes[processID]
	if !ok {
		return fmt.Errorf("process %q: %w", processID, apperr.ErrNotFound)
	}
	if err := mutate(inst); err != nil {
		return err
	}
	doc, err := encodeIssue(iss)
	if err != nil {
		return err
	}
	if err := s.store.WriteCell(ctx, label, row.Version, doc); err != nil {
		return err
	}
	s.publish(eventKind, label, processID)
	return nil
}
