package schedule

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/pfrederiksen/vanier-courses/internal/metrics"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

// row builds a qualifying 21-cell row from the first eleven columns.
func row(bg, section, code, title, teacher, days, times, rooms, seats string) string {
	cells := []string{section, code, title, "", "", "", teacher, days, times, rooms, seats}
	for len(cells) < QualifyingChildCount {
		cells = append(cells, "&nbsp;")
	}

	var b strings.Builder
	b.WriteString("<tr>")
	for i, c := range cells {
		if i == 0 && bg != "" {
			b.WriteString(`<td bgcolor="` + bg + `">` + c + "</td>")
			continue
		}
		b.WriteString("<td>" + c + "</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

func parseString(page string) ([]Course, error) {
	return Parse(strings.NewReader(page))
}

func page(rows ...string) string {
	header := row("", "Section", "Course", "Title", "Teacher", "Day", "Time", "Room", "Seats")
	return "<html><body><table>" + header + strings.Join(rows, "") + "</table></body></html>"
}

func TestParseFixture(t *testing.T) {
	m := metrics.New()
	courses, err := NewParser().WithMetrics(m).Parse(strings.NewReader(loadFixture(t, "schedule_420.html")))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Course{
		{
			Section: 1,
			Course:  "420-101-VA",
			Title:   "Programming I",
			Teacher: "Smith, John",
			Periods: []Period{
				{Day: Monday, Room: "A-101", StartHour: 8, StartMinute: 30, EndHour: 10, EndMinute: 0},
				{Day: Wednesday, Room: "B-202", StartHour: 13, StartMinute: 0, EndHour: 14, EndMinute: 30},
			},
			AvailableSeats: 12,
		},
		{
			Section: 2,
			Course:  "420-102-VA",
			Title:   "Data Structures",
			Teacher: "Tremblay, Marie",
			Periods: []Period{
				{Day: Tuesday, Room: "C-1", StartHour: 10, StartMinute: 0, EndHour: 11, EndMinute: 30},
				{Day: Thursday, Room: "C-3", StartHour: 10, StartMinute: 0, EndHour: 11, EndMinute: 30},
			},
			AvailableSeats:  0,
			RecentlyChanged: true,
		},
		{
			Section: 4,
			Course:  "420-105-VA",
			Title:   "Math & Society",
			Teacher: "Roy, Luc",
			Periods: []Period{
				{Day: Monday, Room: "E-1", StartHour: 8, StartMinute: 0, EndHour: 9, EndMinute: 0},
			},
			AvailableSeats: 0,
		},
	}

	if !reflect.DeepEqual(courses, want) {
		t.Fatalf("Parse() =\n%+v\nwant\n%+v", courses, want)
	}

	if got := counterValue(t, m, "schedule_courses_parsed_total"); got != 3 {
		t.Errorf("courses parsed = %v, want 3", got)
	}
	if got := counterValue(t, m, "schedule_rows_skipped_total"); got != 2 {
		t.Errorf("rows skipped = %v, want 2", got)
	}
}

func counterValue(t *testing.T, m *metrics.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestParseSkipsHeaderOnly(t *testing.T) {
	courses, err := parseString(page())
	if err != nil {
		t.Fatalf("parseString() error = %v", err)
	}
	if courses == nil || len(courses) != 0 {
		t.Errorf("parseString() = %#v, want empty non-nil slice", courses)
	}
}

func TestParseNoTable(t *testing.T) {
	courses, err := parseString("<html><body><p>Schedule unavailable</p></body></html>")
	if err != nil {
		t.Fatalf("parseString() error = %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("parseString() = %v, want none", courses)
	}
}

func TestParseFirstQualifyingRowIsHeader(t *testing.T) {
	// Without a header row the first data row is consumed as one.
	doc := "<table>" +
		row("", "00001", "420-101-VA", "A", "T1", "Mon", "8:00-9:00", "R1", "1") +
		row("", "00002", "420-101-VA", "B", "T2", "Tue", "8:00-9:00", "R2", "2") +
		"</table>"

	courses, err := parseString(doc)
	if err != nil {
		t.Fatalf("parseString() error = %v", err)
	}
	if len(courses) != 1 || courses[0].Section != 2 {
		t.Errorf("parseString() = %+v, want only section 2", courses)
	}
}

func TestParseRowOrderPreserved(t *testing.T) {
	doc := page(
		row("", "00003", "420-300-VA", "C", "T", "Fri", "8:00-9:00", "R", "1"),
		row("", "00001", "420-100-VA", "A", "T", "Mon", "8:00-9:00", "R", "1"),
		row("", "00002", "420-200-VA", "B", "T", "Wed", "8:00-9:00", "R", "1"),
	)

	courses, err := parseString(doc)
	if err != nil {
		t.Fatalf("parseString() error = %v", err)
	}

	var sections []int
	for _, c := range courses {
		sections = append(sections, c.Section)
	}
	if want := []int{3, 1, 2}; !reflect.DeepEqual(sections, want) {
		t.Errorf("sections = %v, want %v", sections, want)
	}
}

func TestParseRows(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		want    *Course
		periods int
	}{
		{
			name:    "unwrapped multi-line cells",
			row:     row("", "00010", "420-101-VA", "T", "Teacher", "Mon<br>Wed", "8:00-9:00<br/>10:00-11:00", "R1<BR>R2", "7"),
			periods: 2,
		},
		{
			name: "days longer than times are truncated",
			row:  row("", "00001", "420-101-VA", "T", "Teacher", "Mon<br>Tue<br>Wed", "8:00-9:00", "R1<br>R2<br>R3", "7"),
			want: &Course{
				Section: 1, Course: "420-101-VA", Title: "T", Teacher: "Teacher", AvailableSeats: 7,
				Periods: []Period{{Day: Monday, Room: "R1", StartHour: 8, EndHour: 9}},
			},
		},
		{
			name: "comments inside cells are ignored",
			row:  row("", "00001", "420-101-VA", "T", "Smith<!-- co-teacher > TBA --><br>Doe", "Mon<!-- a > b -->", "8:00-9:00", "R1", "1"),
			want: &Course{
				Section: 1, Course: "420-101-VA", Title: "T", Teacher: "Smith", AvailableSeats: 1,
				Periods: []Period{{Day: Monday, Room: "R1", StartHour: 8, EndHour: 9}},
			},
		},
		{
			name: "wrapped cells and entities",
			row: row("", "00002", "420-101-VA", "<b>Math &amp; Society</b>", "<font>Roy</font>",
				`<font size="1">Mon<br><i>Wed</i></font>`, `<font size="1">8:00-9:00<br>10:00-11:00</font>`, `<font size="1">R1<br>R2</font>`, "3"),
			want: &Course{
				Section: 2, Course: "420-101-VA", Title: "Math & Society", Teacher: "Roy", AvailableSeats: 3,
				Periods: []Period{
					{Day: Monday, Room: "R1", StartHour: 8, EndHour: 9},
					{Day: Wednesday, Room: "R2", StartHour: 10, EndHour: 11},
				},
			},
		},
		{
			name:    "non-adjacent duplicate days kept",
			row:     row("", "00001", "420-101-VA", "T", "Teacher", "Mon<br>Wed<br>Mon", "8:00-9:00<br>8:00-9:00<br>13:00-14:00", "R<br>R<br>R", "1"),
			periods: 3,
		},
		{
			name: "weekend only",
			row:  row("", "00001", "420-101-VA", "T", "Teacher", "Sat<br>Sun", "8:00-9:00<br>8:00-9:00", "R<br>R", "1"),
		},
		{
			name: "empty time",
			row:  row("", "00001", "420-101-VA", "T", "Teacher", "Mon", " ", "R", "1"),
		},
		{
			name: "malformed time",
			row:  row("", "00001", "420-101-VA", "T", "Teacher", "Mon", "8h-9h", "R", "1"),
		},
		{
			name: "empty section",
			row:  row("", "", "420-101-VA", "T", "Teacher", "Mon", "8:00-9:00", "R", "1"),
		},
		{
			name: "highlight is case-insensitive",
			row:  row("#FfFf00", "00001", "420-101-VA", "T", "Teacher", "Mon", "8:00-9:00", "R", "1"),
			want: &Course{
				Section: 1, Course: "420-101-VA", Title: "T", Teacher: "Teacher", AvailableSeats: 1, RecentlyChanged: true,
				Periods: []Period{{Day: Monday, Room: "R", StartHour: 8, EndHour: 9}},
			},
		},
		{
			name: "other background is not a change",
			row:  row("#CCCCCC", "00001", "420-101-VA", "T", "Teacher", "Mon", "8:00-9:00", "R", "1"),
			want: &Course{
				Section: 1, Course: "420-101-VA", Title: "T", Teacher: "Teacher", AvailableSeats: 1,
				Periods: []Period{{Day: Monday, Room: "R", StartHour: 8, EndHour: 9}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, err := parseString(page(tt.row))
			if err != nil {
				t.Fatalf("parseString() error = %v", err)
			}

			if tt.want == nil && tt.periods == 0 {
				if len(courses) != 0 {
					t.Fatalf("parseString() = %+v, want row skipped", courses)
				}
				return
			}
			if len(courses) != 1 {
				t.Fatalf("parseString() returned %d courses, want 1", len(courses))
			}
			if tt.want != nil && !reflect.DeepEqual(courses[0], *tt.want) {
				t.Errorf("course = %+v, want %+v", courses[0], *tt.want)
			}
			if tt.periods != 0 && len(courses[0].Periods) != tt.periods {
				t.Errorf("periods = %d, want %d", len(courses[0].Periods), tt.periods)
			}
		})
	}
}

func TestParseSection(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00001", want: 1},
		{in: " 00042 ", want: 42},
		{in: "00010", want: 1},
		{in: "01500", want: 15},
		{in: "00000", wantErr: true},
		{in: "", wantErr: true},
		{in: "TBA", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSection(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in      string
		want    [4]int
		wantErr bool
	}{
		{in: "8:30-10:00", want: [4]int{8, 30, 10, 0}},
		{in: " 13:00 - 14:45 ", want: [4]int{13, 0, 14, 45}},
		{in: "0:00-23:59", want: [4]int{0, 0, 23, 59}},
		{in: "8:30", wantErr: true},
		{in: "8-10", wantErr: true},
		{in: "24:00-25:00", wantErr: true},
		{in: "8:60-9:00", wantErr: true},
		{in: "8:00-9:00-10:00", wantErr: true},
		{in: "a:bc-9:00", wantErr: true},
	}

	for _, tt := range tests {
		sh, sm, eh, em, err := ParseTimeRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if got := [4]int{sh, sm, eh, em}; got != tt.want {
			t.Errorf("ParseTimeRange(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCollapseAdjacentDays(t *testing.T) {
	p := func(d DayOfWeek, room string) Period { return Period{Day: d, Room: room} }

	tests := []struct {
		name string
		in   []Period
		want []Period
	}{
		{name: "empty", in: nil, want: nil},
		{name: "single", in: []Period{p(Monday, "a")}, want: []Period{p(Monday, "a")}},
		{
			name: "adjacent run keeps first",
			in:   []Period{p(Tuesday, "a"), p(Tuesday, "b"), p(Tuesday, "c"), p(Thursday, "d")},
			want: []Period{p(Tuesday, "a"), p(Thursday, "d")},
		},
		{
			name: "non-adjacent kept",
			in:   []Period{p(Monday, "a"), p(Wednesday, "b"), p(Monday, "c")},
			want: []Period{p(Monday, "a"), p(Wednesday, "b"), p(Monday, "c")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollapseAdjacentDays(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CollapseAdjacentDays() = %v, want %v", got, tt.want)
			}
			for i := 1; i < len(got); i++ {
				if got[i].Day == got[i-1].Day {
					t.Errorf("adjacent duplicate day %s at %d", got[i].Day, i)
				}
			}
		})
	}
}

func TestTeacherFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Smith, John\nDoe, Jane", want: "Smith, John"},
		{in: "\n   Smith, John  \nDoe", want: "Smith, John"},
		{in: "  Solo  ", want: "Solo"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSeats(t *testing.T) {
	tests := map[string]int{
		"12":   12,
		" 3 ":  3,
		"0":    0,
		"-4":   0,
		"full": 0,
		"":     0,
	}
	for in, want := range tests {
		if got := parseSeats(in); got != want {
			t.Errorf("parseSeats(%q) = %d, want %d", in, got, want)
		}
	}
}
