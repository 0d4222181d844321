package assign

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"testing"

	"go.projectassign.dev/assigner/capacity"
)

func TestAssignFirstFitExample(t *testing.T) {
	caps := table(t, "A", 1, "B", 1, "C", 0)
	students := []Student{
		{ID: "S1", Choices: [3]string{"A", "B", "C"}, Rejected: "C"},
		{ID: "S2", Choices: [3]string{"A", "B", "C"}, Rejected: "C"},
	}

	eng := NewEngine(testLogger(), WithChooser(failChooser(t)))
	res := eng.Assign(context.Background(), students, caps)

	assertStudents(t, res.Assigned("A"), "S1")
	assertStudents(t, res.Assigned("B"), "S2")
	if len(res.Eliminated()) != 0 {
		t.Errorf("expected no eliminated students, got %v", res.Eliminated())
	}
	checkInvariants(t, students, caps, res)
}

func TestAssignAllRejectedIsEliminated(t *testing.T) {
	caps := table(t, "A", 0)
	students := []Student{
		{ID: "S1", Choices: [3]string{"A", "A", "A"}, Rejected: "A"},
	}

	res := NewEngine(testLogger(), WithChooser(failChooser(t))).
		Assign(context.Background(), students, caps)

	assertStudents(t, res.Eliminated(), "S1")
	if len(res.Projects()) != 0 {
		t.Errorf("expected no projects with students, got %v", res.Projects())
	}
	checkInvariants(t, students, caps, res)
}

func TestAssignPrimaryPhase(t *testing.T) {
	tests := []struct {
		name     string
		caps     *capacity.Table
		student  Student
		project  string
		rank     int
		prefills []Student
	}{
		{
			name:    "choice_1_has_room",
			caps:    table(t, "A", 2, "B", 2, "C", 2),
			student: Student{ID: "S1", Choices: [3]string{"A", "B", "C"}, Rejected: "X"},
			project: "A",
			rank:    1,
		},
		{
			name:    "rejected_choice_is_skipped",
			caps:    table(t, "A", 2, "B", 2, "C", 2),
			student: Student{ID: "S1", Choices: [3]string{"A", "B", "C"}, Rejected: "A"},
			project: "B",
			rank:    2,
		},
		{
			name:    "unknown_choice_is_skipped",
			caps:    table(t, "B", 1, "C", 1),
			student: Student{ID: "S1", Choices: [3]string{"nope", "C", "B"}, Rejected: "X"},
			project: "C",
			rank:    2,
		},
		{
			name:    "zero_capacity_choice_is_skipped",
			caps:    table(t, "A", 0, "B", 0, "C", 1),
			student: Student{ID: "S1", Choices: [3]string{"A", "B", "C"}, Rejected: "X"},
			project: "C",
			rank:    3,
		},
		{
			name: "full_choices_fall_through_by_rank",
			caps: table(t, "A", 1, "B", 1, "C", 5),
			prefills: []Student{
				{ID: "P1", Choices: [3]string{"A", "B", "C"}},
				{ID: "P2", Choices: [3]string{"B", "A", "C"}},
			},
			student: Student{ID: "S1", Choices: [3]string{"A", "B", "C"}, Rejected: "X"},
			project: "C",
			rank:    3,
		},
		{
			name:    "rank_order_beats_remaining_capacity",
			caps:    table(t, "A", 1, "B", 100),
			student: Student{ID: "S1", Choices: [3]string{"A", "B", "B"}, Rejected: "X"},
			project: "A",
			rank:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students := append(append([]Student{}, tt.prefills...), tt.student)

			// Primary placements must never touch the random source
			eng := NewEngine(testLogger(), WithChooser(failChooser(t)))
			res := eng.Assign(context.Background(), students, tt.caps)

			outcomes := res.Outcomes()
			got := outcomes[len(outcomes)-1]
			if got.State != AssignedPrimary {
				t.Fatalf("state = %s, want %s", got.State, AssignedPrimary)
			}
			if got.Project != tt.project {
				t.Errorf("project = %q, want %q", got.Project, tt.project)
			}
			if got.Rank != tt.rank {
				t.Errorf("rank = %d, want %d", got.Rank, tt.rank)
			}
			checkInvariants(t, students, tt.caps, res)
		})
	}
}

func TestAssignBackupUsesChooser(t *testing.T) {
	caps := table(t, "A", 1, "B", 1, "C", 1, "D", 1, "E", 1)
	students := []Student{
		{ID: "S0", Choices: [3]string{"A", "B", "C"}, Rejected: "X"},
		{ID: "S1", Choices: [3]string{"A", "A", "A"}, Rejected: "C"},
	}

	var calledWith []int
	chooser := func(n int) int {
		calledWith = append(calledWith, n)
		return n - 1
	}

	res := NewEngine(testLogger(), WithChooser(chooser)).
		Assign(context.Background(), students, caps)

	// Candidates for S1 are B, D, E in table order (A full, C rejected)
	if len(calledWith) != 1 || calledWith[0] != 3 {
		t.Fatalf("chooser calls = %v, want [3]", calledWith)
	}
	assertStudents(t, res.Assigned("E"), "S1")

	got := res.Outcomes()[1]
	if got.State != AssignedBackup || got.Rank != 0 {
		t.Errorf("outcome = %+v, want backup with rank 0", got)
	}
	checkInvariants(t, students, caps, res)
}

func TestAssignBackupReproducible(t *testing.T) {
	caps := table(t, "A", 1, "B", 3, "C", 3, "D", 3)
	var students []Student
	for i := range 8 {
		students = append(students, Student{
			ID:       fmt.Sprintf("S%d", i),
			Choices:  [3]string{"A", "A", "A"},
			Rejected: "D",
		})
	}

	first := NewEngine(testLogger(), WithChooser(SeededChooser(42))).
		Assign(context.Background(), students, caps)
	second := NewEngine(testLogger(), WithChooser(SeededChooser(42))).
		Assign(context.Background(), students, caps)

	for _, p := range caps.Projects() {
		a, b := first.Assigned(p), second.Assigned(p)
		if fmt.Sprint(a) != fmt.Sprint(b) {
			t.Errorf("project %s: %v != %v with the same seed", p, a, b)
		}
	}
	if len(first.Assigned("D")) != 0 {
		t.Errorf("rejected project D got %v", first.Assigned("D"))
	}
	// 1 in A, 6 spots in B and C, one left over
	assertStudents(t, first.Eliminated(), "S7")
	checkInvariants(t, students, caps, first)
}

func TestAssignElimination(t *testing.T) {
	tests := []struct {
		name     string
		caps     *capacity.Table
		students []Student
		want     []string
	}{
		{
			name: "all_choices_zero_capacity_and_nothing_else",
			caps: table(t, "A", 0, "B", 0, "C", 0),
			students: []Student{
				{ID: "S1", Choices: [3]string{"A", "B", "C"}, Rejected: "X"},
			},
			want: []string{"S1"},
		},
		{
			name: "only_room_is_in_rejected_project",
			caps: table(t, "A", 1, "B", 0),
			students: []Student{
				{ID: "S1", Choices: [3]string{"B", "B", "B"}, Rejected: "A"},
			},
			want: []string{"S1"},
		},
		{
			name: "global_capacity_exhausted",
			caps: table(t, "A", 1, "B", 1),
			students: []Student{
				{ID: "S1", Choices: [3]string{"A", "B", "A"}},
				{ID: "S2", Choices: [3]string{"A", "B", "A"}},
				{ID: "S3", Choices: [3]string{"A", "B", "A"}},
				{ID: "S4", Choices: [3]string{"B", "A", "B"}},
			},
			want: []string{"S3", "S4"},
		},
		{
			name:     "empty_capacity_table",
			caps:     table(t),
			students: []Student{{ID: "S1", Choices: [3]string{"A", "B", "C"}}},
			want:     []string{"S1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewEngine(testLogger(), WithChooser(failChooser(t))).
				Assign(context.Background(), tt.students, tt.caps)
			assertStudents(t, res.Eliminated(), tt.want...)
			checkInvariants(t, tt.students, tt.caps, res)
		})
	}
}

func TestAssignOutOfRangeChooser(t *testing.T) {
	caps := table(t, "A", 0, "B", 1, "C", 1)
	students := []Student{
		{ID: "S1", Choices: [3]string{"A", "A", "A"}},
		{ID: "S2", Choices: [3]string{"A", "A", "A"}},
	}

	res := NewEngine(testLogger(), WithChooser(func(n int) int { return n + 7 })).
		Assign(context.Background(), students, caps)

	if len(res.Eliminated()) != 0 {
		t.Errorf("eliminated = %v, want none", res.Eliminated())
	}
	checkInvariants(t, students, caps, res)
}

func TestAssignDoesNotReorderStudents(t *testing.T) {
	caps := table(t, "A", 3)
	students := []Student{
		{ID: "zed", Choices: [3]string{"A", "A", "A"}},
		{ID: "amy", Choices: [3]string{"A", "A", "A"}},
		{ID: "mo", Choices: [3]string{"A", "A", "A"}},
	}

	res := NewEngine(testLogger()).Assign(context.Background(), students, caps)
	assertStudents(t, res.Assigned("A"), "zed", "amy", "mo")
}

func TestAssignInvariantsRandomized(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for iter := range 200 {
		caps := capacity.New()
		nProjects := r.IntN(8)
		for p := range nProjects {
			caps.Set(fmt.Sprintf("P%d", p), r.IntN(4))
		}

		pick := func() string {
			// occasionally reference an unknown project
			return fmt.Sprintf("P%d", r.IntN(nProjects+2))
		}

		var students []Student
		for s := range r.IntN(30) {
			students = append(students, Student{
				ID:       fmt.Sprintf("S%d", s),
				Choices:  [3]string{pick(), pick(), pick()},
				Rejected: pick(),
			})
		}

		res := NewEngine(testLogger(), WithChooser(SeededChooser(uint64(iter)))).
			Assign(context.Background(), students, caps)
		checkInvariants(t, students, caps, res)
	}
}

func TestStats(t *testing.T) {
	caps := table(t, "A", 1, "B", 1, "C", 1)
	students := []Student{
		{ID: "S1", Choices: [3]string{"A", "B", "C"}},
		{ID: "S2", Choices: [3]string{"A", "B", "C"}},
		{ID: "S3", Choices: [3]string{"A", "A", "A"}},
		{ID: "S4", Choices: [3]string{"A", "B", "C"}},
	}

	res := NewEngine(testLogger(), WithChooser(func(int) int { return 0 })).
		Assign(context.Background(), students, caps)
	st := res.Stats()

	if st.Students != 4 || st.Primary != 2 || st.Backup != 1 || st.Eliminated != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.ByRank != [3]int{1, 1, 0} {
		t.Errorf("ByRank = %v, want [1 1 0]", st.ByRank)
	}
	if st.Assigned() != 3 {
		t.Errorf("Assigned() = %d, want 3", st.Assigned())
	}
}

func TestFindUnknownReferences(t *testing.T) {
	caps := table(t, "A", 1, "B", 0)
	students := []Student{
		{ID: "S1", Choices: [3]string{"A", "B", "Z"}, Rejected: "B"},
		{ID: "S2", Choices: [3]string{"A", "A", "A"}, Rejected: "Q"},
		{ID: "S3", Choices: [3]string{"A", "B", "A"}},
	}

	refs := FindUnknownReferences(students, caps)
	want := []UnknownReference{
		{StudentID: "S1", Field: "Choice_3", Project: "Z"},
		{StudentID: "S2", Field: "Rejected", Project: "Q"},
	}
	if len(refs) != len(want) {
		t.Fatalf("refs = %+v, want %+v", refs, want)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("refs[%d] = %+v, want %+v", i, refs[i], want[i])
		}
	}
}

// checkInvariants verifies capacity, exclusivity, rejection and totality.
func checkInvariants(t *testing.T, students []Student, caps Capacities, res *Result) {
	t.Helper()

	rejected := map[string]string{}
	for _, s := range students {
		rejected[s.ID] = s.Rejected
	}

	seen := map[string]int{}
	for project, ids := range res.Assignments() {
		if len(ids) > caps.Capacity(project) {
			t.Errorf("project %s has %d students, capacity %d", project, len(ids), caps.Capacity(project))
		}
		for _, id := range ids {
			seen[id]++
			if rejected[id] == project {
				t.Errorf("student %s assigned to rejected project %s", id, project)
			}
		}
	}
	for _, id := range res.Eliminated() {
		seen[id]++
	}

	for _, s := range students {
		if seen[s.ID] != 1 {
			t.Errorf("student %s appears %d times", s.ID, seen[s.ID])
		}
	}

	st := res.Stats()
	if st.Assigned()+st.Eliminated != len(students) {
		t.Errorf("assigned %d + eliminated %d != %d students", st.Assigned(), st.Eliminated, len(students))
	}
	for _, o := range res.Outcomes() {
		if !o.State.Terminal() {
			t.Errorf("student %s left in state %s", o.StudentID, o.State)
		}
	}
}

func table(t *testing.T, kv ...any) *capacity.Table {
	t.Helper()
	tbl := capacity.New()
	for i := 0; i+1 < len(kv); i += 2 {
		tbl.Set(kv[i].(string), kv[i+1].(int))
	}
	return tbl
}

func failChooser(t *testing.T) Chooser {
	return func(n int) int {
		t.Errorf("unexpected backup pick among %d projects", n)
		return 0
	}
}

func assertStudents(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("students = %v, want %v", got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("students = %v, want %v", got, want)
			return
		}
	}
}

func testLogger() *slog.Logger {
	return slog.Default()
}
