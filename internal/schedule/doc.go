// Package schedule models course sections and decodes them from the online
// schedule's HTML table.
//
// The table is loosely structured: a genuine data row is recognised only by
// having exactly 21 cells, columns are addressed by position, and the day,
// time and room columns pack one value per meeting separated by <br>. Rows
// that do not decode cleanly are skipped rather than reported; malformed rows
// are routine in this data.
package schedule
