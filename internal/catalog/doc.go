// Package catalog answers the questions the rest of the program asks about
// the schedule: which departments exist, what a department offers, and which
// sections belong to a course code.
//
// Every operation derives a fresh session token first and nothing is kept
// between calls.
package catalog
