// Package filter narrows a list of course sections.
//
// Criteria combine with AND; values within one criterion combine with OR:
//   - Days (every meeting falls on one of the listed days)
//   - Teachers (substring, case-insensitive)
//   - Titles (substring of the title, case-insensitive)
//   - Courses (prefix of the course code, case-insensitive)
//   - Window (every meeting starts and ends inside the window)
//   - OpenOnly (at least one seat left)
//   - ChangedOnly (edited since the schedule was published)
//
// Example usage:
//
//	// Morning sections of 420 courses that still have room
//	f := filter.NewFilter()
//	f.Courses = []string{"420"}
//	f.Window, _ = filter.ParseWindow("8:00-12:00")
//	f.OpenOnly = true
//
//	filtered := f.Apply(courses)
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/vanier-courses/internal/schedule"
)

// Window bounds meeting times in minutes since midnight.
type Window struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether p starts and ends inside the window.
func (w Window) Contains(p schedule.Period) bool {
	return p.Start() >= w.From && p.End() <= w.To
}

func (w Window) String() string {
	return fmt.Sprintf("%d:%02d-%d:%02d", w.From/60, w.From%60, w.To/60, w.To%60)
}

// Filter represents course filtering criteria
type Filter struct {
	Days     []schedule.DayOfWeek `json:"days,omitempty"`
	Teachers []string             `json:"teachers,omitempty"`
	Titles   []string             `json:"titles,omitempty"`
	Courses  []string             `json:"courses,omitempty"`
	Window   *Window              `json:"window,omitempty"`

	OpenOnly    bool `json:"open_only,omitempty"`
	ChangedOnly bool `json:"changed_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all courses until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Days:     []schedule.DayOfWeek{},
		Teachers: []string{},
		Titles:   []string{},
		Courses:  []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return len(f.Days) == 0 &&
		len(f.Teachers) == 0 &&
		len(f.Titles) == 0 &&
		len(f.Courses) == 0 &&
		f.Window == nil &&
		!f.OpenOnly &&
		!f.ChangedOnly
}

// Matches checks if a course matches all active filter criteria.
// An empty filter matches all courses.
func (f *Filter) Matches(c schedule.Course) bool {
	if f.IsEmpty() {
		return true
	}

	if f.OpenOnly && c.AvailableSeats <= 0 {
		return false
	}

	if f.ChangedOnly && !c.RecentlyChanged {
		return false
	}

	if len(f.Days) > 0 {
		for _, p := range c.Periods {
			if !containsDay(f.Days, p.Day) {
				return false
			}
		}
	}

	if f.Window != nil {
		for _, p := range c.Periods {
			if !f.Window.Contains(p) {
				return false
			}
		}
	}

	if len(f.Teachers) > 0 && !containsAny(c.Teacher, f.Teachers) {
		return false
	}

	if len(f.Titles) > 0 && !containsAny(c.Title, f.Titles) {
		return false
	}

	if len(f.Courses) > 0 {
		matched := false
		code := strings.ToLower(c.Course)
		for _, prefix := range f.Courses {
			if strings.HasPrefix(code, strings.ToLower(strings.TrimSpace(prefix))) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns the courses that match, in their original order.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(courses []schedule.Course) []schedule.Course {
	if f.IsEmpty() {
		return courses
	}

	filtered := []schedule.Course{}
	for _, c := range courses {
		if f.Matches(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "Days: Mon, Wed | Teachers: smith | Open only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if len(f.Days) > 0 {
		names := make([]string, len(f.Days))
		for i, d := range f.Days {
			names[i] = d.String()[:3]
		}
		parts = append(parts, fmt.Sprintf("Days: %s", strings.Join(names, ", ")))
	}

	if f.Window != nil {
		parts = append(parts, fmt.Sprintf("Between: %s", f.Window))
	}

	if len(f.Courses) > 0 {
		parts = append(parts, fmt.Sprintf("Courses: %s", strings.Join(f.Courses, ", ")))
	}

	if len(f.Titles) > 0 {
		parts = append(parts, fmt.Sprintf("Titles: %s", strings.Join(f.Titles, ", ")))
	}

	if len(f.Teachers) > 0 {
		parts = append(parts, fmt.Sprintf("Teachers: %s", strings.Join(f.Teachers, ", ")))
	}

	if f.OpenOnly {
		parts = append(parts, "Open only")
	}

	if f.ChangedOnly {
		parts = append(parts, "Changed only")
	}

	return strings.Join(parts, " | ")
}

func containsDay(days []schedule.DayOfWeek, d schedule.DayOfWeek) bool {
	for _, day := range days {
		if day == d {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(strings.TrimSpace(n))) {
			return true
		}
	}
	return false
}
