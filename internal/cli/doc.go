// Package cli implements the vanier-courses command line.
//
// Subcommands cover the whole catalog: deriving a session token, listing
// departments and their sections, finding a course code, planning
// conflict-free timetables, taking a snapshot of several departments and
// serving the HTTP API. Listing commands share the filter flags (--day,
// --teacher, --title, --between, --open, --changed), a --sort order and a
// --format of text, json or ics.
package cli
