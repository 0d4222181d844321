package assign

// Placement is a student's position in the assignment state machine.
// Unprocessed moves to exactly one terminal state and never back.
type Placement uint8

const (
	Unprocessed     Placement = iota
	AssignedPrimary           // placed in a ranked choice
	AssignedBackup            // placed at random
	Eliminated                // no eligible project
)

func (p Placement) String() string {
	switch p {
	case Unprocessed:
		return "unprocessed"
	case AssignedPrimary:
		return "primary"
	case AssignedBackup:
		return "backup"
	case Eliminated:
		return "eliminated"
	}
	return "unknown"
}

// Terminal reports whether the student has been fully processed.
func (p Placement) Terminal() bool {
	return p == AssignedPrimary || p == AssignedBackup || p == Eliminated
}

// Placed is true for both assigned states.
func (p Placement) Placed() bool {
	return p == AssignedPrimary || p == AssignedBackup
}
