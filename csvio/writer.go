package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.projectassign.dev/assigner/assign"
)

// WriteAssignments writes one row per project in projects that has at least
// one student. Students are comma joined in assignment order.
func WriteAssignments(w io.Writer, res *assign.Result, projects []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColProjectID, ColAssignedStudents}); err != nil {
		return err
	}
	for _, p := range projects {
		students := res.Assigned(p)
		if len(students) == 0 {
			continue
		}
		if err := cw.Write([]string{p, strings.Join(students, ",")}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEliminated writes one row per eliminated student.
func WriteEliminated(w io.Writer, res *assign.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColEliminated}); err != nil {
		return err
	}
	for _, id := range res.Eliminated() {
		if err := cw.Write([]string{id}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Output is one file written by WriteFiles.
type Output struct {
	Path  string
	Write func(io.Writer) error
}

// WriteFiles writes every output to a temporary file next to its path and
// renames them into place only once all of them were written, so readers
// never see a partial file. If any write fails none of the destination
// files is touched.
func WriteFiles(outputs ...Output) error {
	tmps := make([]string, 0, len(outputs))
	defer func() {
		for _, name := range tmps {
			os.Remove(name)
		}
	}()

	for _, o := range outputs {
		name, err := writeTemp(o)
		if err != nil {
			return err
		}
		tmps = append(tmps, name)
	}

	for i, o := range outputs {
		if err := os.Rename(tmps[i], o.Path); err != nil {
			return err
		}
	}
	return nil
}

func writeTemp(o Output) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(o.Path), "."+filepath.Base(o.Path)+".*.tmp")
	if err != nil {
		return "", err
	}

	if err := o.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%s: %w", o.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
