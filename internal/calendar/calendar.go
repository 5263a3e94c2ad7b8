// Package calendar provides the pure date arithmetic the scheduling and
// stats layers partition by: ISO-8601 week identity and week/month starts.
// All functions are side-effect free and keep the location of their input.
package calendar

import (
	"math"
	"time"
)

// isoWeekday maps time.Weekday to the ISO numbering, Monday=1 .. Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// WeekOf returns the ISO-8601 week number and week-year for t.
//
// The date is shifted to the Thursday of its week; that Thursday's year is
// the ISO year, and the week number is the 1-based count of 7-day blocks
// since Jan 1 of that year. Dec 29-31 can therefore land in week 1 of the
// following year, and Jan 1-3 in week 52/53 of the previous one.
func WeekOf(t time.Time) (week, year int) {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	thursday := d.AddDate(0, 0, 4-isoWeekday(d))
	year = thursday.Year()
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, t.Location())
	// Rounding absorbs the off-by-an-hour a DST transition introduces into
	// a wall-clock subtraction.
	days := int(math.Round(thursday.Sub(yearStart).Hours() / 24))
	week = (days + 7) / 7 // ceil((days+1)/7)
	return week, year
}

// StartOfWeek returns the Monday at 00:00:00 of t's week.
func StartOfWeek(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, 1-isoWeekday(d))
}

// StartOfMonth returns the first day of t's month at 00:00:00.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfPreviousMonth returns the first day of the month before t's month.
func StartOfPreviousMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, -1, 0)
}
