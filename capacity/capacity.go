// Package capacity loads the per-project participant limits used by the
// assignment engine.
package capacity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidCapacity = errors.New("invalid capacity")
	ErrMissingField    = errors.New("missing field")
)

// Record is one raw row of the project capacity input.
type Record struct {
	ProjectID       string
	MaxParticipants string
	Line            int // source line, 0 when unknown
}

// Table maps project identifiers to their maximum participant count.
// Projects keep the order in which they were first seen.
type Table struct {
	order []string
	limit map[string]int
}

// New returns an empty table.
func New() *Table {
	return &Table{limit: map[string]int{}}
}

// Build parses the records into a Table. Later records for the same
// project overwrite earlier ones. Any malformed record aborts the build.
func Build(records []Record) (*Table, error) {
	t := New()
	for i, rec := range records {
		line := rec.Line
		if line == 0 {
			line = i + 1
		}
		if rec.ProjectID == "" {
			return nil, fmt.Errorf("record %d: Project_ID: %w", line, ErrMissingField)
		}
		value := strings.TrimSpace(rec.MaxParticipants)
		if value == "" {
			return nil, fmt.Errorf("record %d (project %q): Max_Participants: %w", line, rec.ProjectID, ErrMissingField)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("record %d (project %q): %w: %q is not an integer", line, rec.ProjectID, ErrInvalidCapacity, rec.MaxParticipants)
		}
		if n < 0 {
			return nil, fmt.Errorf("record %d (project %q): %w: %d is negative", line, rec.ProjectID, ErrInvalidCapacity, n)
		}
		t.Set(rec.ProjectID, n)
	}
	return t, nil
}

// Set stores the capacity for a project.
func (t *Table) Set(project string, max int) {
	if _, ok := t.limit[project]; !ok {
		t.order = append(t.order, project)
	}
	t.limit[project] = max
}

// Capacity returns the limit for project; unknown projects have capacity 0.
func (t *Table) Capacity(project string) int {
	if t == nil {
		return 0
	}
	return t.limit[project]
}

// Known reports whether the project is in the table.
func (t *Table) Known(project string) bool {
	if t == nil {
		return false
	}
	_, ok := t.limit[project]
	return ok
}

// Projects returns the project identifiers in first-seen order.
func (t *Table) Projects() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Total is the sum of all capacities.
func (t *Table) Total() int {
	if t == nil {
		return 0
	}
	total := 0
	for _, n := range t.limit {
		total += n
	}
	return total
}
