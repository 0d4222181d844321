// Package assign implements the student to project assignment algorithm.
//
// Students are processed one at a time in input order. Each student ends in
// exactly one terminal state:
//   - AssignedPrimary: placed in the first of their three ranked choices that
//     is not their rejected project and still has room
//   - AssignedBackup: none of the ranked choices fit, so a project with room
//     was picked at random among all projects other than the rejected one
//   - Eliminated: no project with room other than the rejected one exists
//
// # Capacities
//
// Capacities come from a [Capacities] lookup. Projects that are not in the
// lookup have capacity zero and are never selected. The backup phase scans
// projects in the lookup's order, so the result is reproducible for a fixed
// [Chooser].
//
// # Randomness
//
// The backup pick goes through an injected [Chooser]. The default uses the
// process-wide math/rand/v2 source and is not seeded; tests and the CLI's
// --seed flag pass their own.
//
// # Usage
//
//	eng := assign.NewEngine(log, assign.WithMetrics(metrics))
//	res := eng.Assign(ctx, students, capacities)
//	for _, project := range res.Projects() {
//	    fmt.Println(project, res.Assigned(project))
//	}
//
// The algorithm is greedy and depends on input order; it does not try to
// maximize global satisfaction.
package assign
