package schedule

import (
	"errors"
	"strconv"
	"strings"
)

// Column positions in a data row. These are a contract with the site's
// layout; a layout change is a change here.
const (
	colSection = 0
	colCode    = 1
	colTitle   = 2
	colTeacher = 6
	colDays    = 7
	colTimes   = 8
	colRooms   = 9
	colSeats   = 10
)

// HighlightColor is the background the site paints on the section cell of
// rows edited since the schedule was published.
const HighlightColor = "#FFFF00"

// Cell is the part of a table cell the decoder needs.
type Cell struct {
	// Text is the cell's text content, with <br> as "\n".
	Text string
	// Lines is Text split at each <br>. Multi-valued columns are read from
	// here; empty lines keep their position.
	Lines []string
	// BgColor is the cell's bgcolor attribute.
	BgColor string
}

// Skip reasons reported by decodeRow.
var (
	errShortRow   = errors.New("row has too few cells")
	errBadSection = errors.New("section is not a number")
	errNoPeriods  = errors.New("no valid periods")
)

// decodeRow turns the cells of one qualifying row into a Course, or reports
// why the row was skipped.
func decodeRow(cells []Cell) (Course, error) {
	if len(cells) <= colSeats {
		return Course{}, errShortRow
	}

	section, err := ParseSection(cells[colSection].Text)
	if err != nil {
		return Course{}, errBadSection
	}

	periods := decodePeriods(
		cells[colDays].Lines,
		cells[colTimes].Lines,
		cells[colRooms].Lines,
	)
	if len(periods) == 0 {
		return Course{}, errNoPeriods
	}

	return Course{
		Section:         section,
		Course:          strings.TrimSpace(cells[colCode].Text),
		Title:           strings.TrimSpace(cells[colTitle].Text),
		Teacher:         firstLine(cells[colTeacher].Text),
		Periods:         periods,
		AvailableSeats:  parseSeats(cells[colSeats].Text),
		RecentlyChanged: strings.EqualFold(strings.TrimSpace(cells[colSection].BgColor), HighlightColor),
	}, nil
}

// decodePeriods zips the day, time and room columns position by position,
// keeps the well-formed triples and collapses adjacent repeats of a day.
func decodePeriods(days, times, rooms []string) []Period {
	n := min(len(days), len(times), len(rooms))

	periods := make([]Period, 0, n)
	for i := 0; i < n; i++ {
		p, ok := decodePeriod(days[i], times[i], rooms[i])
		if !ok {
			continue
		}
		periods = append(periods, p)
	}
	return CollapseAdjacentDays(periods)
}

func decodePeriod(dayText, timeText, roomText string) (Period, bool) {
	timeText = strings.TrimSpace(timeText)
	roomText = strings.TrimSpace(roomText)
	if timeText == "" || roomText == "" {
		return Period{}, false
	}

	day := ParseDay(dayText)
	if day == Unknown {
		return Period{}, false
	}

	sh, sm, eh, em, err := ParseTimeRange(timeText)
	if err != nil {
		return Period{}, false
	}

	return Period{
		Day:         day,
		Room:        roomText,
		StartHour:   sh,
		StartMinute: sm,
		EndHour:     eh,
		EndMinute:   em,
	}, true
}

// ParseSection normalises the zero-padded section column. Trailing zeros are
// stripped, not leading ones: "0010" and "0100" both become 1.
func ParseSection(s string) (int, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(s), "0")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ParseTimeRange splits "H:MM-H:MM" into start hour, start minute, end hour
// and end minute.
func ParseTimeRange(s string) (startHour, startMinute, endHour, endMinute int, err error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || strings.Contains(end, "-") {
		return 0, 0, 0, 0, errors.New("time range must be H:MM-H:MM")
	}

	if startHour, startMinute, err = parseClock(start); err != nil {
		return 0, 0, 0, 0, err
	}
	if endHour, endMinute, err = parseClock(end); err != nil {
		return 0, 0, 0, 0, err
	}
	return startHour, startMinute, endHour, endMinute, nil
}

func parseClock(s string) (int, int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, errors.New("clock must be H:MM")
	}

	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, 0, err
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, errors.New("clock out of range")
	}
	return h, m, nil
}

// CollapseAdjacentDays drops a period whose day equals the day of the period
// immediately before it. Non-adjacent repeats are kept.
func CollapseAdjacentDays(periods []Period) []Period {
	if len(periods) < 2 {
		return periods
	}

	out := make([]Period, 0, len(periods))
	out = append(out, periods[0])
	for _, p := range periods[1:] {
		if p.Day == out[len(out)-1].Day {
			continue
		}
		out = append(out, p)
	}
	return out
}

// firstLine keeps the text before the first newline. Co-teachers are listed
// on following lines.
func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}

func parseSeats(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
