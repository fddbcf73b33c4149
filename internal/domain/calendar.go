package domain

import "time"

// StartOfMonth returns midnight on the first day of t's month in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	year, month, _ := t.In(loc).Date()

	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

// EndOfMonth returns midnight on the last day of t's month in loc.
func EndOfMonth(t time.Time, loc *time.Location) time.Time {
	return StartOfMonth(t, loc).AddDate(0, 1, -1)
}

// StartOfWeek returns midnight on the Sunday of t's week in loc.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)

	return day.AddDate(0, 0, -int(day.Weekday()))
}

// EndOfWeek returns midnight on the Saturday of t's week in loc.
func EndOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)

	return day.AddDate(0, 0, int(time.Saturday-day.Weekday()))
}

// MonthGrid produces the padded month grid for t's month in loc: every
// calendar day from the Sunday on or before the first of the month through
// the Saturday on or after the last of the month, one midnight per day.
// Days are stepped in the zoned calendar, not in fixed 24h increments, so
// the grid stays aligned across DST transitions. The result is never empty
// and its length is always a multiple of 7.
func MonthGrid(t time.Time, loc *time.Location) []time.Time {
	first := StartOfWeek(StartOfMonth(t, loc), loc)
	last := EndOfWeek(EndOfMonth(t, loc), loc)

	days := make([]time.Time, 0, 42)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}

	return days
}

// IsSameMonth reports whether a and b fall in the same calendar month in
// loc. Presentation uses this to dim padding days; it is not authoritative
// for aggregation.
func IsSameMonth(a, b time.Time, loc *time.Location) bool {
	ay, am, _ := a.In(loc).Date()
	by, bm, _ := b.In(loc).Date()

	return ay == by && am == bm
}
