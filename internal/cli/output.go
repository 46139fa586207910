package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/vanier-courses/internal/calendar"
	"github.com/pfrederiksen/vanier-courses/internal/schedule"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatICS:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", s)
	}
}

// OutputResult contains courses to be output
type OutputResult struct {
	CheckedAt  time.Time         `json:"checked_at"`
	Department *int              `json:"department,omitempty"`
	Query      string            `json:"query,omitempty"`
	Filter     string            `json:"filter,omitempty"`
	Courses    []schedule.Course `json:"courses"`
	Count      int               `json:"count"`
}

// PlanResult contains timetables to be output
type PlanResult struct {
	CheckedAt time.Time           `json:"checked_at"`
	Codes     []string            `json:"codes"`
	Plans     [][]schedule.Course `json:"plans"`
	Count     int                 `json:"count"`
}

// SnapshotResult contains several departments' listings
type SnapshotResult struct {
	CheckedAt   time.Time                 `json:"checked_at"`
	Departments map[int][]schedule.Course `json:"departments"`
	Count       int                       `json:"count"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool, cal calendar.Options) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		body, err := calendar.Export(result.Courses, cal)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, body)
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WritePlans writes timetables as text or JSON.
func WritePlans(w io.Writer, result *PlanResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		if result.Count == 0 {
			fmt.Fprintf(w, "No conflict-free timetable for %s.\n", strings.Join(result.Codes, ", "))
			return nil
		}
		for i, plan := range result.Plans {
			fmt.Fprintf(w, "\nOption %d:\n", i+1)
			for _, c := range plan {
				writeCourse(w, "  ", c, verbose)
			}
		}
		fmt.Fprintf(w, "\nTotal: %d timetables\n", result.Count)
		return nil
	default:
		return fmt.Errorf("format %s is not supported for plans", format)
	}
}

// WriteSnapshot writes several departments as text or JSON.
func WriteSnapshot(w io.Writer, result *SnapshotResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		departments := make([]int, 0, len(result.Departments))
		for d := range result.Departments {
			departments = append(departments, d)
		}
		sort.Ints(departments)

		total := 0
		for _, d := range departments {
			courses := result.Departments[d]
			total += len(courses)
			fmt.Fprintf(w, "\n%d (%d sections):\n", d, len(courses))
			if verbose {
				for _, c := range courses {
					writeCourse(w, "  ", c, false)
				}
			}
		}
		fmt.Fprintf(w, "\nTotal: %d sections across %d departments\n", total, len(departments))
		return nil
	default:
		return fmt.Errorf("format %s is not supported for snapshots", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.Count == 0 {
		if result.Query != "" {
			fmt.Fprintf(w, "No sections found for %s.\n", result.Query)
		} else {
			fmt.Fprintln(w, "No sections found.")
		}
		return nil
	}

	if result.Filter != "" && verbose {
		fmt.Fprintf(w, "Filter: %s\n\n", result.Filter)
	}

	for _, c := range result.Courses {
		writeCourse(w, "", c, verbose)
	}
	fmt.Fprintf(w, "\nTotal: %d sections\n", result.Count)
	return nil
}

func writeCourse(w io.Writer, indent string, c schedule.Course, verbose bool) {
	marker := ""
	if c.RecentlyChanged {
		marker = " [changed]"
	}
	fmt.Fprintf(w, "%s%-11s %s  %s (%s) %d seats%s\n",
		indent, c.Course, c.SectionLabel(), c.Title, c.Teacher, c.AvailableSeats, marker)

	if !verbose {
		fmt.Fprintf(w, "%s    %s\n", indent, summarizePeriods(c.Periods))
		return
	}
	for _, p := range c.Periods {
		fmt.Fprintf(w, "%s    %-9s %-11s %s\n", indent, p.Day, p.TimeRange(), p.Room)
	}
}

// summarizePeriods renders "Mon 8:30-10:00 A-101; Wed 13:00-14:30 B-202".
func summarizePeriods(periods []schedule.Period) string {
	parts := make([]string, len(periods))
	for i, p := range periods {
		parts[i] = fmt.Sprintf("%s %s %s", p.Day.String()[:3], p.TimeRange(), p.Room)
	}
	return strings.Join(parts, "; ")
}
