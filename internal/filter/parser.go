package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/vanier-courses/internal/schedule"
)

// ParseDays parses a comma-separated day list such as "Mon,Wed" or
// "monday, friday". Duplicates are removed; order is kept.
func ParseDays(input string) ([]schedule.DayOfWeek, error) {
	parts := SplitList(input)
	if len(parts) == 0 {
		return nil, fmt.Errorf("day list cannot be empty")
	}

	days := make([]schedule.DayOfWeek, 0, len(parts))
	for _, part := range parts {
		d, err := schedule.ParseDayName(part)
		if err != nil {
			return nil, err
		}
		if !containsDay(days, d) {
			days = append(days, d)
		}
	}
	return days, nil
}

// ParseWindow parses "H:MM-H:MM" into a Window.
func ParseWindow(input string) (*Window, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("time window cannot be empty")
	}

	sh, sm, eh, em, err := schedule.ParseTimeRange(input)
	if err != nil {
		return nil, fmt.Errorf("invalid time window %q. Use 'H:MM-H:MM', e.g. '8:00-16:00'", input)
	}

	w := &Window{From: sh*60 + sm, To: eh*60 + em}
	if w.From >= w.To {
		return nil, fmt.Errorf("window start must be before its end")
	}
	return w, nil
}

// SplitList splits a comma-separated list, trimming blanks and dropping
// empty entries.
func SplitList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
