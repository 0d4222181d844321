package assign

// UnknownReference is a student field that names a project missing from the
// capacity table.
type UnknownReference struct {
	StudentID string
	Field     string // "Choice_1".."Choice_3" or "Rejected"
	Project   string
}

// KnownProjects is implemented by capacity tables that can tell unknown
// projects from zero capacity ones.
type KnownProjects interface {
	Known(project string) bool
}

// FindUnknownReferences lists choices and rejections that name projects not
// in caps. These are not errors; such projects are never selected. An empty
// rejection means the student rejected nothing and is not reported.
func FindUnknownReferences(students []Student, caps KnownProjects) []UnknownReference {
	var refs []UnknownReference
	for _, s := range students {
		for i, c := range s.Choices {
			if !caps.Known(c) {
				refs = append(refs, UnknownReference{
					StudentID: s.ID,
					Field:     choiceFields[i],
					Project:   c,
				})
			}
		}
		if s.Rejected != "" && !caps.Known(s.Rejected) {
			refs = append(refs, UnknownReference{
				StudentID: s.ID,
				Field:     "Rejected",
				Project:   s.Rejected,
			})
		}
	}
	return refs
}

var choiceFields = [3]string{"Choice_1", "Choice_2", "Choice_3"}
