package domain

import (
	"fmt"
	"time"
)

// ResolveOffset converts a cumulative hour offset into an absolute instant:
// anchor + offset hours. The result is an exact shift of the anchor; a later
// projection into any display zone changes the representation only, never
// the instant.
func ResolveOffset(anchor time.Time, hour HourOffset) (time.Time, error) {
	if anchor.IsZero() {
		return time.Time{}, ErrMissingAnchor
	}

	return anchor.Add(time.Duration(hour.OrZero()) * time.Hour), nil
}

// DayKey formats the canonical YYYY-MM-DD key for the calendar day that t
// falls on in loc. This is the single day-key implementation; every set
// membership test across the caching layers compares keys produced here.
func DayKey(t time.Time, loc *time.Location) string {
	year, month, day := t.In(loc).Date()

	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// StartOfDay returns midnight of t's calendar day in loc. Together with
// EndOfDay it bounds the half-open interval [StartOfDay, EndOfDay) covering
// the day; across a DST transition the interval is not 24 hours of absolute
// time.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()

	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// EndOfDay returns midnight of the following calendar day in loc, the
// exclusive upper bound of t's day.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()

	return ay == by && am == bm && ad == bd
}
