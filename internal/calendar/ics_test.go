package calendar

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/vanier-courses/internal/apperr"
	"github.com/pfrederiksen/vanier-courses/internal/config"
	"github.com/pfrederiksen/vanier-courses/internal/schedule"
)

func testCourse() schedule.Course {
	return schedule.Course{
		Section: 1,
		Course:  "420-101-VA",
		Title:   "Programming I",
		Teacher: "Smith, John",
		Periods: []schedule.Period{
			{Day: schedule.Monday, Room: "A-101", StartHour: 8, StartMinute: 30, EndHour: 10},
			{Day: schedule.Wednesday, Room: "B-202", StartHour: 13, EndHour: 14, EndMinute: 30},
		},
		AvailableSeats: 12,
	}
}

func termOptions(t *testing.T) Options {
	t.Helper()
	opts, err := OptionsFromConfig(config.CalendarConfig{
		Timezone:  "America/Toronto",
		TermStart: "2026-08-26",
		TermEnd:   "2026-12-11",
	})
	if err != nil {
		t.Fatalf("OptionsFromConfig() error = %v", err)
	}
	opts.Now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return opts
}

func TestExport(t *testing.T) {
	out, err := Export([]schedule.Course{testCourse()}, termOptions(t))
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"PRODID:" + ProductID,
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"END:VCALENDAR",
	}
	for _, field := range requiredFields {
		if !strings.Contains(out, field) {
			t.Errorf("ICS missing required field: %s", field)
		}
	}
	if !strings.Contains(out, "\r\n") {
		t.Error("ICS should use \\r\\n line endings")
	}

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseCalendar() error = %v", err)
	}

	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want one per meeting (2)", len(events))
	}

	// Term starts on a Wednesday, so Monday's first meeting is the next week.
	tests := []struct {
		uid      string
		start    string
		end      string
		location string
	}{
		{uid: "420-101-va-00001-0@vanier-courses", start: "20260831T083000", end: "20260831T100000", location: "A-101"},
		{uid: "420-101-va-00001-1@vanier-courses", start: "20260826T130000", end: "20260826T143000", location: "B-202"},
	}

	for i, tt := range tests {
		ev := events[i]
		if got := ev.Id(); got != tt.uid {
			t.Errorf("event %d UID = %q, want %q", i, got, tt.uid)
		}

		start := ev.GetProperty(ics.ComponentPropertyDtStart)
		if start == nil || start.Value != tt.start {
			t.Errorf("event %d DTSTART = %v, want %s", i, start, tt.start)
		} else if tz := start.ICalParameters[string(ics.ParameterTzid)]; len(tz) != 1 || tz[0] != "America/Toronto" {
			t.Errorf("event %d TZID = %v", i, tz)
		}

		if end := ev.GetProperty(ics.ComponentPropertyDtEnd); end == nil || end.Value != tt.end {
			t.Errorf("event %d DTEND = %v, want %s", i, end, tt.end)
		}

		rrule := ev.GetProperty(ics.ComponentPropertyRrule)
		if rrule == nil || rrule.Value != "FREQ=WEEKLY;UNTIL=20261212T045959Z" {
			t.Errorf("event %d RRULE = %v", i, rrule)
		}

		if loc := ev.GetProperty(ics.ComponentPropertyLocation); loc == nil || loc.Value != tt.location {
			t.Errorf("event %d LOCATION = %v, want %s", i, loc, tt.location)
		}

		if summary := ev.GetProperty(ics.ComponentPropertySummary); summary == nil ||
			summary.Value != "420-101-VA Programming I (section 1)" {
			t.Errorf("event %d SUMMARY = %v", i, summary)
		}
	}
}

func TestExportOpenEnded(t *testing.T) {
	opts := Options{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2026, 9, 4, 15, 0, 0, 0, time.UTC) }, // Friday
	}

	out, err := Export([]schedule.Course{testCourse()}, opts)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseCalendar() error = %v", err)
	}

	ev := cal.Events()[0]
	if start := ev.GetProperty(ics.ComponentPropertyDtStart); start == nil || start.Value != "20260907T083000" {
		t.Errorf("DTSTART = %v, want next Monday", start)
	}
	if rrule := ev.GetProperty(ics.ComponentPropertyRrule); rrule == nil || rrule.Value != "FREQ=WEEKLY" {
		t.Errorf("RRULE = %v, want no UNTIL", rrule)
	}
}

func TestExportEmpty(t *testing.T) {
	out, err := Export(nil, Options{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Error("empty export contains events")
	}
}

func TestExportTermEndsBeforeStart(t *testing.T) {
	opts := Options{
		TermStart: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		TermEnd:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := Export([]schedule.Course{testCourse()}, opts)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("Export() error = %v, want ValidationError", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.CalendarConfig
		wantErr bool
	}{
		{name: "defaults to UTC", cfg: config.CalendarConfig{}},
		{name: "bad timezone", cfg: config.CalendarConfig{Timezone: "Mars/Olympus"}, wantErr: true},
		{name: "bad start", cfg: config.CalendarConfig{TermStart: "Aug 24"}, wantErr: true},
		{name: "bad end", cfg: config.CalendarConfig{TermEnd: "2026-13-01"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OptionsFromConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("OptionsFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFirstOnOrAfter(t *testing.T) {
	wed := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	if got := firstOnOrAfter(wed, time.Wednesday); !got.Equal(wed) {
		t.Errorf("same weekday moved to %v", got)
	}
	if got := firstOnOrAfter(wed, time.Tuesday); got.Day() != 1 || got.Month() != time.September {
		t.Errorf("firstOnOrAfter(Tue) = %v, want Sep 1", got)
	}
}
