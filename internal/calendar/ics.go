// Package calendar exports course sections as iCalendar files with one
// weekly recurring event per meeting.
package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/vanier-courses/internal/apperr"
	"github.com/pfrederiksen/vanier-courses/internal/config"
	"github.com/pfrederiksen/vanier-courses/internal/schedule"
)

const (
	ProductID = "-//Vanier Courses//vanier-courses//EN"
	uidDomain = "vanier-courses"

	// DateLayout is the format of TERM_START and TERM_END.
	DateLayout = "2006-01-02"

	localLayout = "20060102T150405"
	utcLayout   = "20060102T150405Z"
)

// Options controls where and when the recurring events are placed.
type Options struct {
	Location *time.Location
	// TermStart is the first day events may fall on. Zero means today.
	TermStart time.Time
	// TermEnd bounds the recurrence. Zero means it repeats forever.
	TermEnd time.Time
	Now     func() time.Time
}

// OptionsFromConfig resolves the configured timezone and term dates.
func OptionsFromConfig(cfg config.CalendarConfig) (Options, error) {
	const op = "calendar.OptionsFromConfig"

	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Options{}, apperr.Validation(op, "unknown timezone "+tz, err)
	}

	opts := Options{Location: loc}
	if cfg.TermStart != "" {
		if opts.TermStart, err = time.ParseInLocation(DateLayout, cfg.TermStart, loc); err != nil {
			return Options{}, apperr.Validation(op, "TERM_START must be YYYY-MM-DD", err)
		}
	}
	if cfg.TermEnd != "" {
		if opts.TermEnd, err = time.ParseInLocation(DateLayout, cfg.TermEnd, loc); err != nil {
			return Options{}, apperr.Validation(op, "TERM_END must be YYYY-MM-DD", err)
		}
	}
	return opts, nil
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Export builds a calendar holding every meeting of every course.
func Export(courses []schedule.Course, opts Options) (string, error) {
	loc := opts.location()
	now := opts.now()

	start := opts.TermStart
	if start.IsZero() {
		start = now
	}
	start = midnight(start.In(loc))

	if !opts.TermEnd.IsZero() && opts.TermEnd.Before(start) {
		return "", apperr.Validation("calendar.Export", "term ends before it starts", nil)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)

	for _, course := range courses {
		for i, p := range course.Periods {
			addPeriod(cal, course, i, p, start, opts.TermEnd, now)
		}
	}

	return cal.Serialize(), nil
}

func addPeriod(cal *ics.Calendar, c schedule.Course, index int, p schedule.Period, termStart, termEnd, now time.Time) {
	loc := termStart.Location()
	day := firstOnOrAfter(termStart, p.Day.Weekday())
	begin := time.Date(day.Year(), day.Month(), day.Day(), p.StartHour, p.StartMinute, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), p.EndHour, p.EndMinute, 0, 0, loc)

	event := cal.AddEvent(EventUID(c, index))
	event.SetDtStampTime(now)
	tzid := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{loc.String()}}
	event.SetProperty(ics.ComponentPropertyDtStart, begin.Format(localLayout), tzid)
	event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(localLayout), tzid)

	rule := "FREQ=WEEKLY"
	if !termEnd.IsZero() {
		until := time.Date(termEnd.Year(), termEnd.Month(), termEnd.Day(), 23, 59, 59, 0, loc)
		rule += ";UNTIL=" + until.UTC().Format(utcLayout)
	}
	event.AddProperty(ics.ComponentPropertyRrule, rule)

	event.SetSummary(fmt.Sprintf("%s %s (section %d)", c.Course, c.Title, c.Section))
	event.SetLocation(p.Room)
	event.SetDescription(describe(c))
}

// EventUID identifies one meeting of one section across exports, so
// re-importing updates events instead of duplicating them.
func EventUID(c schedule.Course, index int) string {
	code := strings.ToLower(strings.ReplaceAll(c.Course, " ", ""))
	return fmt.Sprintf("%s-%s-%d@%s", code, c.SectionLabel(), index, uidDomain)
}

func describe(c schedule.Course) string {
	lines := []string{"Section " + c.SectionLabel()}
	if c.Teacher != "" {
		lines = append(lines, "Teacher: "+c.Teacher)
	}
	return strings.Join(lines, "\n")
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func firstOnOrAfter(t time.Time, wd time.Weekday) time.Time {
	offset := (int(wd) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset)
}
