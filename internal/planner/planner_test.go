package planner

import (
	"testing"

	"github.com/pfrederiksen/vanier-courses/internal/schedule"
)

func section(code string, n int, periods ...schedule.Period) schedule.Course {
	return schedule.Course{Section: n, Course: code, Periods: periods}
}

func at(d schedule.DayOfWeek, sh, eh int) schedule.Period {
	return schedule.Period{Day: d, StartHour: sh, EndHour: eh}
}

func TestConflicts(t *testing.T) {
	a := section("420-101-VA", 1, at(schedule.Monday, 8, 10), at(schedule.Wednesday, 8, 10))

	tests := []struct {
		name string
		b    schedule.Course
		want bool
	}{
		{"overlap on second meeting", section("201-NYA-05", 1, at(schedule.Wednesday, 9, 11)), true},
		{"back to back", section("201-NYA-05", 1, at(schedule.Monday, 10, 12)), false},
		{"different days", section("201-NYA-05", 1, at(schedule.Tuesday, 8, 10)), false},
		{"no periods", section("201-NYA-05", 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Conflicts(a, tt.b); got != tt.want {
				t.Errorf("Conflicts() = %v, want %v", got, tt.want)
			}
			if got := Conflicts(tt.b, a); got != tt.want {
				t.Errorf("Conflicts() not symmetric")
			}
		})
	}
}

func TestCombinations(t *testing.T) {
	prog := []schedule.Course{
		section("420-101-VA", 1, at(schedule.Monday, 8, 10)),
		section("420-101-VA", 2, at(schedule.Tuesday, 8, 10)),
	}
	calc := []schedule.Course{
		section("201-NYA-05", 1, at(schedule.Monday, 9, 11)),
		section("201-NYA-05", 2, at(schedule.Tuesday, 13, 15)),
	}

	got := Combinations([][]schedule.Course{prog, calc}, 0)

	// prog1+calc1 overlap on Monday morning.
	want := [][2]int{{1, 2}, {2, 1}, {2, 2}}
	if len(got) != len(want) {
		t.Fatalf("Combinations() returned %d timetables, want %d", len(got), len(want))
	}
	for i, tt := range got {
		if tt[0].Section != want[i][0] || tt[1].Section != want[i][1] {
			t.Errorf("timetable %d = (%d, %d), want %v", i, tt[0].Section, tt[1].Section, want[i])
		}
		if Conflicts(tt[0], tt[1]) {
			t.Errorf("timetable %d has a conflict", i)
		}
	}
}

func TestCombinationsLimit(t *testing.T) {
	var a, b []schedule.Course
	for i := 1; i <= 5; i++ {
		a = append(a, section("A", i, at(schedule.Monday, 8, 9)))
		b = append(b, section("B", i, at(schedule.Tuesday, 8, 9)))
	}

	if got := Combinations([][]schedule.Course{a, b}, 7); len(got) != 7 {
		t.Errorf("Combinations() returned %d, want 7", len(got))
	}
}

func TestCombinationsImpossible(t *testing.T) {
	a := []schedule.Course{section("A", 1, at(schedule.Monday, 8, 10))}
	b := []schedule.Course{section("B", 1, at(schedule.Monday, 9, 11))}

	tests := []struct {
		name   string
		groups [][]schedule.Course
	}{
		{"no groups", nil},
		{"empty group", [][]schedule.Course{a, {}}},
		{"all conflict", [][]schedule.Course{a, b}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Combinations(tt.groups, 10)
			if got == nil || len(got) != 0 {
				t.Errorf("Combinations() = %v, want empty", got)
			}
		})
	}
}
