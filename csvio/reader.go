// Package csvio reads the project capacity and student preference CSV files
// and writes the assignment and elimination result files.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.projectassign.dev/assigner/assign"
	"go.projectassign.dev/assigner/capacity"
)

// Column names of the input and output files.
const (
	ColProjectID        = "Project_ID"
	ColMaxParticipants  = "Max_Participants"
	ColStudentID        = "Student_ID"
	ColChoice1          = "Choice_1"
	ColChoice2          = "Choice_2"
	ColChoice3          = "Choice_3"
	ColRejected         = "Choice_4" // historical name for the rejected project
	ColAssignedStudents = "Assigned_Students"
	ColEliminated       = "Eliminated_Students"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrMissingField  = errors.New("missing field")
)

// header maps column names to their index, like a dict reader.
type header map[string]int

func readHeader(cr *csv.Reader, required ...string) (header, error) {
	row, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: %w %s", ErrMissingColumn, strings.Join(required, ", "))
	}
	if err != nil {
		return nil, err
	}

	h := header{}
	for i, name := range row {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}

	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}
	return h, nil
}

func (h header) field(row []string, col string, line int) (string, error) {
	i := h[col]
	if i >= len(row) {
		return "", fmt.Errorf("line %d: %w %q", line, ErrMissingField, col)
	}
	return row[i], nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	// short rows are reported per field below
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// ReadCapacities reads the raw capacity records. Values are validated by
// capacity.Build.
func ReadCapacities(r io.Reader) ([]capacity.Record, error) {
	cr := newReader(r)
	h, err := readHeader(cr, ColProjectID, ColMaxParticipants)
	if err != nil {
		return nil, fmt.Errorf("project capacities: %w", err)
	}

	var records []capacity.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("project capacities: %w", err)
		}
		line, _ := cr.FieldPos(0)

		project, err := h.field(row, ColProjectID, line)
		if err != nil {
			return nil, fmt.Errorf("project capacities: %w", err)
		}
		limit, err := h.field(row, ColMaxParticipants, line)
		if err != nil {
			return nil, fmt.Errorf("project capacities: %w", err)
		}

		records = append(records, capacity.Record{
			ProjectID:       project,
			MaxParticipants: limit,
			Line:            line,
		})
	}
	return records, nil
}

// LoadCapacities reads and parses a capacity file.
func LoadCapacities(path string) (*capacity.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ReadCapacities(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tbl, err := capacity.Build(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tbl, nil
}

// ReadStudents reads the student preferences in file order. A student id
// that appears again keeps its first position but takes the values of the
// later row; such ids are returned in duplicates.
func ReadStudents(r io.Reader) (students []assign.Student, duplicates []string, err error) {
	cr := newReader(r)
	h, err := readHeader(cr, ColStudentID, ColChoice1, ColChoice2, ColChoice3, ColRejected)
	if err != nil {
		return nil, nil, fmt.Errorf("student preferences: %w", err)
	}

	index := map[string]int{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("student preferences: %w", err)
		}
		line, _ := cr.FieldPos(0)

		var s assign.Student
		var values [5]string
		for i, col := range []string{ColStudentID, ColChoice1, ColChoice2, ColChoice3, ColRejected} {
			values[i], err = h.field(row, col, line)
			if err != nil {
				return nil, nil, fmt.Errorf("student preferences: %w", err)
			}
		}
		if values[0] == "" {
			return nil, nil, fmt.Errorf("student preferences: line %d: %w %q", line, ErrMissingField, ColStudentID)
		}
		s.ID = values[0]
		s.Choices = [3]string{values[1], values[2], values[3]}
		s.Rejected = values[4]

		if i, ok := index[s.ID]; ok {
			students[i] = s
			duplicates = append(duplicates, s.ID)
			continue
		}
		index[s.ID] = len(students)
		students = append(students, s)
	}
	return students, duplicates, nil
}

// LoadStudents reads a student preference file.
func LoadStudents(path string) ([]assign.Student, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	students, dups, err := ReadStudents(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return students, dups, nil
}
