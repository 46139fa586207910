package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/vanier-courses/internal/schedule"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortBySection SortOrder = "section"
	SortByCourse  SortOrder = "course"
	SortByTitle   SortOrder = "title"
	SortBySeats   SortOrder = "seats"
)

// ParseSortOrder validates a --sort value. Empty keeps table order.
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortNone, SortBySection, SortByCourse, SortByTitle, SortBySeats:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort: %s (must be 'section', 'course', 'title' or 'seats')", s)
	}
}

// sortCourses sorts in place. Ties keep table order.
func sortCourses(courses []schedule.Course, order SortOrder) {
	switch order {
	case SortBySection:
		sort.SliceStable(courses, func(i, j int) bool {
			if courses[i].Section != courses[j].Section {
				return courses[i].Section < courses[j].Section
			}
			return courses[i].Course < courses[j].Course
		})
	case SortByCourse:
		sort.SliceStable(courses, func(i, j int) bool {
			if courses[i].Course != courses[j].Course {
				return courses[i].Course < courses[j].Course
			}
			return courses[i].Section < courses[j].Section
		})
	case SortByTitle:
		sort.SliceStable(courses, func(i, j int) bool {
			ti, tj := strings.ToLower(courses[i].Title), strings.ToLower(courses[j].Title)
			if ti != tj {
				return ti < tj
			}
			return courses[i].Section < courses[j].Section
		})
	case SortBySeats:
		// Most seats first.
		sort.SliceStable(courses, func(i, j int) bool {
			return courses[i].AvailableSeats > courses[j].AvailableSeats
		})
	}
}
