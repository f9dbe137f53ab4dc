// Package master holds the static production configuration: categories,
// process definitions, the deadline master, and the prerequisite graph.
// Tables load from YAML (with built-in defaults) and are validated once at
// load time — nothing here is re-derived per request.
package master

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/ayasato/gekkan/internal/schedule"
)

// Category groups related processes, typically one magazine section or one
// external company relationship.
type Category struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	RequiresData bool     `yaml:"requires_data"`
	DataTypes    []string `yaml:"data_types"`
	// Gate is the category's data-submission process. When set, it is an
	// implicit prerequisite of every other process in the category.
	Gate string `yaml:"gate"`
}

// Process defines one production task. Shape only; instance state lives on
// the issue.
type Process struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Category string        `yaml:"category"`
	Kind     schedule.Kind `yaml:"kind"`
}

// DeadlineRule reverse-schedules one process from the publish date.
type DeadlineRule struct {
	Process string               `yaml:"process"`
	Offset  schedule.MonthOffset `yaml:"offset"`
	Day     int                  `yaml:"day"`
}

// Edge is one directed prerequisite: Dependent cannot start until Prereq is
// completed.
type Edge struct {
	Prereq    string `yaml:"prereq"`
	Dependent string `yaml:"dependent"`
}

// Tables is the raw, loadable form of the master configuration.
type Tables struct {
	Categories []Category     `yaml:"categories"`
	Processes  []Process      `yaml:"processes"`
	Rules      []DeadlineRule `yaml:"rules"`
	Edges      []Edge         `yaml:"edges"`
}

// Master is the validated, lookup-ready configuration. Immutable after
// Build; hot reload swaps the whole value through a Holder.
type Master struct {
	Categories []Category
	Processes  []Process

	byID       map[string]Process
	byCategory map[string]Category
	rules      map[string]DeadlineRule
	prereqs    map[string][]string
}

// Build validates raw tables and produces the lookup structures. Rules and
// edges that name unknown process ids are logged and skipped so one bad row
// cannot block the rest; duplicate process ids and dependency cycles are
// rejected outright.
func Build(t Tables, logger *slog.Logger) (*Master, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Master{
		Categories: t.Categories,
		Processes:  t.Processes,
		byID:       make(map[string]Process, len(t.Processes)),
		byCategory: make(map[string]Category, len(t.Categories)),
		rules:      make(map[string]DeadlineRule),
		prereqs:    make(map[string][]string),
	}

	for _, c := range t.Categories {
		if _, dup := m.byCategory[c.ID]; dup {
			return nil, fmt.Errorf("master: duplicate category %q", c.ID)
		}
		m.byCategory[c.ID] = c
	}

	for _, p := range t.Processes {
		if _, dup := m.byID[p.ID]; dup {
			return nil, fmt.Errorf("master: duplicate process %q", p.ID)
		}
		if _, ok := m.byCategory[p.Category]; !ok {
			return nil, fmt.Errorf("master: process %q references unknown category %q", p.ID, p.Category)
		}
		if p.Kind != schedule.KindDated && p.Kind != schedule.KindConfirmation {
			return nil, fmt.Errorf("master: process %q has unknown kind %q", p.ID, p.Kind)
		}
		m.byID[p.ID] = p
	}

	for _, r := range t.Rules {
		if _, ok := m.byID[r.Process]; !ok {
			logger.Warn("master: rule for unknown process, skipped", slog.String("process", r.Process))
			continue
		}
		if r.Offset != schedule.PrevProduction && r.Offset != schedule.CurrProduction {
			logger.Warn("master: rule with unknown offset, skipped",
				slog.String("process", r.Process), slog.String("offset", string(r.Offset)))
			continue
		}
		if r.Day < 1 || r.Day > 31 {
			logger.Warn("master: rule day out of range, skipped",
				slog.String("process", r.Process), slog.Int("day", r.Day))
			continue
		}
		m.rules[r.Process] = r
	}

	addEdge := func(prereq, dependent string) {
		if prereq == dependent {
			return
		}
		for _, existing := range m.prereqs[dependent] {
			if existing == prereq {
				return
			}
		}
		m.prereqs[dependent] = append(m.prereqs[dependent], prereq)
	}

	for _, e := range t.Edges {
		if _, ok := m.byID[e.Prereq]; !ok {
			logger.Warn("master: edge from unknown process, skipped", slog.String("prereq", e.Prereq))
			continue
		}
		if _, ok := m.byID[e.Dependent]; !ok {
			logger.Warn("master: edge to unknown process, skipped", slog.String("dependent", e.Dependent))
			continue
		}
		addEdge(e.Prereq, e.Dependent)
	}

	// Category gates: the data-submission process is an implicit
	// prerequisite of every other process in its category.
	for _, c := range t.Categories {
		if !c.RequiresData || c.Gate == "" {
			continue
		}
		if _, ok := m.byID[c.Gate]; !ok {
			logger.Warn("master: gate references unknown process, skipped",
				slog.String("category", c.ID), slog.String("gate", c.Gate))
			continue
		}
		for _, p := range t.Processes {
			if p.Category == c.ID && p.ID != c.Gate {
				addEdge(c.Gate, p.ID)
			}
		}
	}

	if cyc := findCycle(m.prereqs); cyc != "" {
		return nil, fmt.Errorf("master: dependency cycle through %q", cyc)
	}

	return m, nil
}

// findCycle runs a three-color DFS over the prerequisite map and returns a
// process id on a cycle, or "" when the graph is acyclic.
func findCycle(prereqs map[string][]string) string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)

	var visit func(id string) string
	visit = func(id string) string {
		color[id] = gray
		for _, pre := range prereqs[id] {
			switch color[pre] {
			case gray:
				return pre
			case white:
				if hit := visit(pre); hit != "" {
					return hit
				}
			}
		}
		color[id] = black
		return ""
	}

	for id := range prereqs {
		if color[id] == white {
			if hit := visit(id); hit != "" {
				return hit
			}
		}
	}
	return ""
}

// Load reads tables from a YAML file and builds them. An empty path returns
// the built-in defaults.
func Load(path string, logger *slog.Logger) (*Master, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("master: read %s: %w", path, err)
	}
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("master: parse %s: %w", path, err)
	}
	return Build(t, logger)
}

// Default returns the built-in master tables.
func Default() *Master {
	m, err := Build(defaultTables(), slog.Default())
	if err != nil {
		// The built-in tables are fixed at compile time; failing to build
		// them is a programming error.
		panic(err)
	}
	return m
}

// Process looks up one process definition.
func (m *Master) Process(id string) (Process, bool) {
	p, ok := m.byID[id]
	return p, ok
}

// Category looks up one category definition.
func (m *Master) Category(id string) (Category, bool) {
	c, ok := m.byCategory[id]
	return c, ok
}

// Rule returns the deadline rule for a process, if one exists.
func (m *Master) Rule(id string) (DeadlineRule, bool) {
	r, ok := m.rules[id]
	return r, ok
}

// Rules returns the full deadline master keyed by process id. Read-only.
func (m *Master) Rules() map[string]DeadlineRule { return m.rules }

// Prereqs returns the prerequisite map (explicit edges plus category
// gates) keyed by dependent process id. Read-only.
func (m *Master) Prereqs() map[string][]string { return m.prereqs }

// Holder publishes the active master and allows atomic swaps on reload.
type Holder struct {
	v atomic.Pointer[Master]
}

// NewHolder creates a holder seeded with m.
func NewHolder(m *Master) *Holder {
	h := &Holder{}
	h.v.Store(m)
	return h
}

// Get returns the active master.
func (h *Holder) Get() *Master { return h.v.Load() }

// Swap replaces the active master.
func (h *Holder) Swap(m *Master) { h.v.Store(m) }
