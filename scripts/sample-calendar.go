//go:build ignore

// Generates sample-schedule.ics from the department fixture so the export
// can be checked in a real calendar app.
//
//	go run scripts/sample-calendar.go [schedule.html]
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/vanier-courses/internal/calendar"
	"github.com/pfrederiksen/vanier-courses/internal/schedule"
)

func main() {
	source := "testdata/fixtures/schedule_420.html"
	if len(os.Args) > 1 {
		source = os.Args[1]
	}

	f, err := os.Open(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", source, err)
		os.Exit(1)
	}
	defer f.Close()

	courses, err := schedule.Parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing schedule: %v\n", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		loc = time.UTC
	}
	start := time.Now().In(loc)
	icsContent, err := calendar.Export(courses, calendar.Options{
		Location:  loc,
		TermStart: start,
		TermEnd:   start.AddDate(0, 0, 7*15),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting calendar: %v\n", err)
		os.Exit(1)
	}

	// Write to file (owner read/write only)
	filename := "sample-schedule.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s with %d sections\n\n", filename, len(courses))
	fmt.Println("Open it with your calendar app, or import it into Google Calendar, Apple Calendar or Outlook.")
}
