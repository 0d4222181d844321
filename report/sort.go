package report

import (
	"cmp"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// SortProjectIDs returns a sorted copy of ids. Identifiers that parse as
// integers come first in numeric order; the rest follow lexically.
func SortProjectIDs(ids []string) []string {
	sorted := slices.Clone(ids)
	slices.SortStableFunc(sorted, compareProjectIDs)
	return sorted
}

func compareProjectIDs(a, b string) int {
	na, errA := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
	nb, errB := strconv.ParseInt(strings.TrimSpace(b), 10, 64)

	switch {
	case errA == nil && errB == nil:
		if c := cmp.Compare(na, nb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
