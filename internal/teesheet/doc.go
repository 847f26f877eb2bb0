// Package teesheet parses rendered tee sheet markup into reservation slots.
//
// The tee sheet is an HTML table with one row per tee time. The first cell
// holds the time label ("7:30 am") and the remaining cells hold the golfers
// booked into that time, in display order. Cells are kept verbatim so the
// audit copy matches what the club published; matching decides later which
// cells count. Missing or malformed markup yields an empty sheet rather than
// an error.
package teesheet
