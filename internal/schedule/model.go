package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DayOfWeek is a teaching day. Weekend meetings do not appear in the table.
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Unknown
)

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Unknown"}

// Abbreviations used in the day column.
var dayAbbrev = map[string]DayOfWeek{
	"Mon": Monday,
	"Tue": Tuesday,
	"Wed": Wednesday,
	"Thu": Thursday,
	"Fri": Friday,
}

// ParseDay maps a three-letter abbreviation to a day. Anything else,
// including other spellings, is Unknown.
func ParseDay(s string) DayOfWeek {
	if d, ok := dayAbbrev[strings.TrimSpace(s)]; ok {
		return d
	}
	return Unknown
}

// ParseDayName accepts either a full name ("Monday") or an abbreviation
// ("Mon"), case-insensitively. It is for user input, not table cells.
func ParseDayName(s string) (DayOfWeek, error) {
	s = strings.TrimSpace(s)
	for i, name := range dayNames[:Unknown] {
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return DayOfWeek(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown day: %q", s)
}

func (d DayOfWeek) String() string {
	if d < Monday || d > Unknown {
		return dayNames[Unknown]
	}
	return dayNames[d]
}

// Weekday converts to time.Weekday. Unknown maps to Sunday, which never
// matches a teaching day.
func (d DayOfWeek) Weekday() time.Weekday {
	if d < Monday || d >= Unknown {
		return time.Sunday
	}
	return time.Weekday(int(d) + 1)
}

// MarshalText encodes the day by name, e.g. "Monday".
func (d DayOfWeek) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a day name written by MarshalText.
func (d *DayOfWeek) UnmarshalText(b []byte) error {
	s := string(b)
	for i, name := range dayNames {
		if s == name {
			*d = DayOfWeek(i)
			return nil
		}
	}
	return fmt.Errorf("invalid day of week: %q", s)
}

// Period is one weekly meeting of a section.
type Period struct {
	Day         DayOfWeek `json:"day"`
	Room        string    `json:"room"`
	StartHour   int       `json:"start_hour"`
	StartMinute int       `json:"start_minute"`
	EndHour     int       `json:"end_hour"`
	EndMinute   int       `json:"end_minute"`
}

// Start returns minutes since midnight.
func (p Period) Start() int { return p.StartHour*60 + p.StartMinute }

// End returns minutes since midnight.
func (p Period) End() int { return p.EndHour*60 + p.EndMinute }

// Overlaps reports whether two periods share a day and any minute.
// Back-to-back periods (one ends as the next starts) do not overlap.
func (p Period) Overlaps(o Period) bool {
	return p.Day == o.Day && p.Start() < o.End() && o.Start() < p.End()
}

// TimeRange formats the period's times as "H:MM-H:MM".
func (p Period) TimeRange() string {
	return fmt.Sprintf("%d:%02d-%d:%02d", p.StartHour, p.StartMinute, p.EndHour, p.EndMinute)
}

// Course is one section of a course as listed in the schedule.
type Course struct {
	Section         int      `json:"section"`
	Course          string   `json:"course"`
	Title           string   `json:"title"`
	Teacher         string   `json:"teacher"`
	Periods         []Period `json:"periods"`
	AvailableSeats  int      `json:"available_seats"`
	RecentlyChanged bool     `json:"recently_changed"`
}

// SectionLabel returns the section number zero-padded to five digits, the
// way students see it on registration forms.
func (c Course) SectionLabel() string {
	return fmt.Sprintf("%05d", c.Section)
}
