package assign

// Result is the outcome of one Assign call. It is not modified after Assign
// returns.
type Result struct {
	caps        Capacities
	assignments map[string][]string
	order       []string // projects in the order they received their first student
	eliminated  []string
	outcomes    []Outcome
}

func newResult(caps Capacities, students int) *Result {
	return &Result{
		caps:        caps,
		assignments: map[string][]string{},
		outcomes:    make([]Outcome, 0, students),
	}
}

func (r *Result) remaining(project string) int {
	return r.caps.Capacity(project) - len(r.assignments[project])
}

func (r *Result) add(project, studentID string) {
	if _, ok := r.assignments[project]; !ok {
		r.order = append(r.order, project)
	}
	r.assignments[project] = append(r.assignments[project], studentID)
}

// backupCandidates lists every known project with room, except rejected,
// in capacity table order.
func (r *Result) backupCandidates(rejected string) []string {
	var candidates []string
	for _, p := range r.caps.Projects() {
		if p == rejected {
			continue
		}
		if r.remaining(p) > 0 {
			candidates = append(candidates, p)
		}
	}
	return candidates
}

// Projects returns the projects that received at least one student, in
// capacity table order.
func (r *Result) Projects() []string {
	projects := make([]string, 0, len(r.order))
	for _, p := range r.caps.Projects() {
		if len(r.assignments[p]) > 0 {
			projects = append(projects, p)
		}
	}
	return projects
}

// Assigned returns the students placed in project, in assignment order.
func (r *Result) Assigned(project string) []string {
	return append([]string(nil), r.assignments[project]...)
}

// Assignments returns a copy of the project to students table.
func (r *Result) Assignments() map[string][]string {
	m := make(map[string][]string, len(r.assignments))
	for p, s := range r.assignments {
		m[p] = append([]string(nil), s...)
	}
	return m
}

// Eliminated returns the students that could not be placed, in processing
// order.
func (r *Result) Eliminated() []string {
	return append([]string(nil), r.eliminated...)
}

// Outcomes returns the per-student placement records in processing order.
func (r *Result) Outcomes() []Outcome {
	return append([]Outcome(nil), r.outcomes...)
}

// Capacity returns the limit the run used for project.
func (r *Result) Capacity(project string) int {
	return r.caps.Capacity(project)
}

func (r *Result) Stats() Stats {
	st := Stats{Students: len(r.outcomes)}
	for _, o := range r.outcomes {
		switch o.State {
		case AssignedPrimary:
			st.Primary++
			if o.Rank >= 1 && o.Rank <= len(st.ByRank) {
				st.ByRank[o.Rank-1]++
			}
		case AssignedBackup:
			st.Backup++
		case Eliminated:
			st.Eliminated++
		}
	}
	return st
}
