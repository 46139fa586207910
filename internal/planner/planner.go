// Package planner finds timetables: one section per course with no two
// meetings overlapping.
package planner

import (
	"github.com/pfrederiksen/vanier-courses/internal/schedule"
)

// DefaultLimit caps Combinations when the caller passes a non-positive limit.
const DefaultLimit = 100

// Conflicts reports whether any meeting of a overlaps any meeting of b.
func Conflicts(a, b schedule.Course) bool {
	for _, pa := range a.Periods {
		for _, pb := range b.Periods {
			if pa.Overlaps(pb) {
				return true
			}
		}
	}
	return false
}

// Combinations picks one section from each group so that no two picks
// conflict. Results come out in depth-first order over the groups as given,
// at most limit of them. An empty group makes every timetable impossible.
func Combinations(groups [][]schedule.Course, limit int) [][]schedule.Course {
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := [][]schedule.Course{}
	if len(groups) == 0 {
		return results
	}

	picked := make([]schedule.Course, 0, len(groups))

	var walk func(depth int)
	walk = func(depth int) {
		if len(results) >= limit {
			return
		}
		if depth == len(groups) {
			results = append(results, append([]schedule.Course(nil), picked...))
			return
		}

		for _, candidate := range groups[depth] {
			if conflictsWithAny(candidate, picked) {
				continue
			}
			picked = append(picked, candidate)
			walk(depth + 1)
			picked = picked[:len(picked)-1]

			if len(results) >= limit {
				return
			}
		}
	}
	walk(0)

	return results
}

func conflictsWithAny(c schedule.Course, picked []schedule.Course) bool {
	for _, p := range picked {
		if Conflicts(c, p) {
			return true
		}
	}
	return false
}
