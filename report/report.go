// Package report formats the human readable summary of an assignment run.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc"

	"go.projectassign.dev/assigner/assign"
)

// Summary is the input for WriteSummary.
type Summary struct {
	RunID      string
	Version    string
	Result     *assign.Result
	Duplicates []string
}

// WriteSummary prints per project counts and listings followed by the
// eliminated students.
func WriteSummary(w io.Writer, s Summary) error {
	res := s.Result
	st := res.Stats()

	var buf bytes.Buffer
	fmt.Fprint(&buf, heredoc.Docf(`
		Assignment run %s (%s)
		Students: %d  assigned: %d  backup: %d  eliminated: %d
		Ranked placements: 1st %d, 2nd %d, 3rd %d

		`,
		s.RunID, s.Version,
		st.Students, st.Assigned(), st.Backup, st.Eliminated,
		st.ByRank[0], st.ByRank[1], st.ByRank[2],
	))

	if len(s.Duplicates) > 0 {
		fmt.Fprintf(&buf, "Duplicate student rows (last row used): %s\n\n", strings.Join(s.Duplicates, ", "))
	}

	for _, p := range SortProjectIDs(res.Projects()) {
		group := res.Assigned(p)
		fmt.Fprintf(&buf, "%s: %d/%d students - [%s]\n", p, len(group), res.Capacity(p), strings.Join(group, " "))
	}

	eliminated := res.Eliminated()
	fmt.Fprintf(&buf, "\nTotal eliminated students: %d\n", len(eliminated))
	fmt.Fprintf(&buf, "Eliminated students: [%s]\n", strings.Join(eliminated, " "))

	_, err := buf.WriteTo(w)
	return err
}

// Check is the input for WriteCheck.
type Check struct {
	Projects      int
	TotalCapacity int
	Students      int
	Duplicates    []string
	Unknown       []assign.UnknownReference
}

// WriteCheck prints the result of validating the input files.
func WriteCheck(w io.Writer, c Check) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Projects: %d (total capacity %d)\n", c.Projects, c.TotalCapacity)
	fmt.Fprintf(&buf, "Students: %d\n", c.Students)
	if c.Students > c.TotalCapacity {
		fmt.Fprintf(&buf, "At least %d students cannot be placed\n", c.Students-c.TotalCapacity)
	}
	if len(c.Duplicates) > 0 {
		fmt.Fprintf(&buf, "Duplicate student rows (last row used): %s\n", strings.Join(c.Duplicates, ", "))
	}

	if len(c.Unknown) == 0 {
		fmt.Fprintln(&buf, "All referenced projects are known")
	} else {
		fmt.Fprintf(&buf, "Unknown project references (treated as capacity 0): %d\n", len(c.Unknown))
		for _, ref := range c.Unknown {
			fmt.Fprintf(&buf, "  %s %s=%q\n", ref.StudentID, ref.Field, ref.Project)
		}
	}

	_, err := buf.WriteTo(w)
	return err
}
