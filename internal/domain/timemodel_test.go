package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiara-stack/tiara-stack/internal/domain"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation(name)
	require.NoError(t, err)

	return loc
}

func TestResolveOffsetExactShift(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		hours int
	}{
		{name: "offset zero", hours: 0},
		{name: "same day", hours: 5},
		{name: "day boundary", hours: 24},
		{name: "day two plus two", hours: 50},
		{name: "week later", hours: 168},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instant, err := domain.ResolveOffset(anchor, domain.MustHourOffset(tt.hours))
			require.NoError(t, err)

			assert.Equal(t, anchor.Add(time.Duration(tt.hours)*time.Hour), instant)
		})
	}
}

func TestResolveOffsetAbsentDefaultsToAnchor(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	instant, err := domain.ResolveOffset(anchor, domain.NoHourOffset())
	require.NoError(t, err)

	assert.True(t, instant.Equal(anchor))
}

func TestResolveOffsetMissingAnchor(t *testing.T) {
	_, err := domain.ResolveOffset(time.Time{}, domain.MustHourOffset(10))

	assert.ErrorIs(t, err, domain.ErrMissingAnchor)
}

// Re-projecting a resolved instant into another zone must not change the
// absolute instant: zone selection changes representation only.
func TestResolveOffsetZoneIndependent(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tokyo := mustLoadLocation(t, "Asia/Tokyo")
	newYork := mustLoadLocation(t, "America/New_York")

	instant, err := domain.ResolveOffset(anchor, domain.MustHourOffset(50))
	require.NoError(t, err)

	assert.True(t, instant.Equal(instant.In(tokyo)))
	assert.True(t, instant.Equal(instant.In(newYork)))
	assert.Equal(t, instant.UnixMilli(), instant.In(tokyo).UnixMilli())
}

// epochDayKey recomputes the day key via raw epoch-millisecond arithmetic,
// the strategy DayKey replaced. Both must agree for every (instant, zone).
func epochDayKey(t time.Time, loc *time.Location) string {
	_, offsetSeconds := t.In(loc).Zone()

	shiftedMs := t.UnixMilli() + int64(offsetSeconds)*1000

	days := shiftedMs / 86_400_000
	if shiftedMs < 0 && shiftedMs%86_400_000 != 0 {
		days--
	}

	civil := time.UnixMilli(days * 86_400_000).UTC()

	return fmt.Sprintf("%04d-%02d-%02d", civil.Year(), int(civil.Month()), civil.Day())
}

func TestDayKeyMatchesEpochArithmetic(t *testing.T) {
	zones := []string{"UTC", "Asia/Tokyo", "America/New_York", "Pacific/Kiritimati", "Pacific/Midway"}

	instants := []time.Time{
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 3, 2, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 9, 7, 30, 0, 0, time.UTC),  // during US spring-forward
		time.Date(2025, 11, 2, 6, 30, 0, 0, time.UTC), // during US fall-back
		time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
		time.Date(1969, 12, 31, 12, 0, 0, 0, time.UTC),
	}

	for _, zoneName := range zones {
		loc := mustLoadLocation(t, zoneName)

		for _, instant := range instants {
			t.Run(fmt.Sprintf("%s/%s", zoneName, instant.Format(time.RFC3339)), func(t *testing.T) {
				assert.Equal(t, epochDayKey(instant, loc), domain.DayKey(instant, loc))
			})
		}
	}
}

func TestDayKeyZeroPadded(t *testing.T) {
	instant := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-02-03", domain.DayKey(instant, time.UTC))
}

func TestDayKeyDependsOnZone(t *testing.T) {
	tokyo := mustLoadLocation(t, "Asia/Tokyo")

	// 23:00 UTC is already the next day in Tokyo.
	instant := time.Date(2025, 1, 2, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-01-02", domain.DayKey(instant, time.UTC))
	assert.Equal(t, "2025-01-03", domain.DayKey(instant, tokyo))
}

func TestStartOfDayAcrossDST(t *testing.T) {
	newYork := mustLoadLocation(t, "America/New_York")

	tests := []struct {
		name     string
		day      time.Time
		expected time.Duration
	}{
		{
			name:     "spring forward day has 23 hours",
			day:      time.Date(2025, 3, 9, 12, 0, 0, 0, newYork),
			expected: 23 * time.Hour,
		},
		{
			name:     "fall back day has 25 hours",
			day:      time.Date(2025, 11, 2, 12, 0, 0, 0, newYork),
			expected: 25 * time.Hour,
		},
		{
			name:     "ordinary day has 24 hours",
			day:      time.Date(2025, 6, 15, 12, 0, 0, 0, newYork),
			expected: 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := domain.StartOfDay(tt.day, newYork)
			end := domain.EndOfDay(tt.day, newYork)

			assert.Equal(t, tt.expected, end.Sub(start))
		})
	}
}

func TestStartOfDayFixedOffsetAlwaysExactly24h(t *testing.T) {
	zone, err := domain.ZoneFromString("+09:00")
	require.NoError(t, err)

	day := time.Date(2025, 3, 9, 12, 0, 0, 0, zone.Location())

	start := domain.StartOfDay(day, zone.Location())
	end := domain.EndOfDay(day, zone.Location())

	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestSameDay(t *testing.T) {
	tokyo := mustLoadLocation(t, "Asia/Tokyo")

	tests := []struct {
		name     string
		a        time.Time
		b        time.Time
		loc      *time.Location
		expected bool
	}{
		{
			name:     "same UTC day",
			a:        time.Date(2025, 1, 3, 2, 0, 0, 0, time.UTC),
			b:        time.Date(2025, 1, 3, 23, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			expected: true,
		},
		{
			name:     "different UTC days",
			a:        time.Date(2025, 1, 3, 2, 0, 0, 0, time.UTC),
			b:        time.Date(2025, 1, 4, 2, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			expected: false,
		},
		{
			name:     "same day only in Tokyo",
			a:        time.Date(2025, 1, 2, 16, 0, 0, 0, time.UTC),
			b:        time.Date(2025, 1, 3, 2, 0, 0, 0, time.UTC),
			loc:      tokyo,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.SameDay(tt.a, tt.b, tt.loc))
		})
	}
}
