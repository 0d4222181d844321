package assign

// Student is one student's preferences.
type Student struct {
	ID string

	// Choices holds the ranked project preferences, rank 1 first.
	Choices [3]string

	// Rejected is a project the student must never be placed in. It is read
	// from the Choice_4 column.
	Rejected string
}

// Capacities is the read-only project limit lookup used by the engine.
type Capacities interface {
	// Capacity returns the participant limit, 0 for unknown projects.
	Capacity(project string) int

	// Projects returns all known projects in a stable order.
	Projects() []string
}

// Outcome records how a single student was placed
type Outcome struct {
	StudentID string
	State     Placement
	Project   string // empty when eliminated
	Rank      int    // 1..3 for primary placements, 0 otherwise
}

// Stats summarizes a Result.
type Stats struct {
	Students   int
	Primary    int
	Backup     int
	Eliminated int
	ByRank     [3]int
}

// Assigned is the number of students placed in a project.
func (s Stats) Assigned() int {
	return s.Primary + s.Backup
}
