package domain

import (
	"sort"
	"time"
)

// DaySet is a presence-only set of canonical day keys.
type DaySet map[string]struct{}

func (s DaySet) Has(key string) bool {
	_, ok := s[key]

	return ok
}

// Keys returns the day keys in ascending order. YYYY-MM-DD keys sort
// chronologically as strings.
func (s DaySet) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// ScheduledDayKeys computes the set of calendar days, within the inclusive
// range [rangeStart, rangeEnd], that contain a visible slot for the given
// channel. Break slots never mark a day as scheduled here; the single-day
// view applies a different filter on purpose (see DayScheduleByHour).
// Membership uses the full cumulative hour offset, never a 0-23 projection.
func ScheduledDayKeys(
	entries []ScheduleEntry,
	anchor time.Time,
	channel Channel,
	loc *time.Location,
	rangeStart, rangeEnd time.Time,
) (DaySet, error) {
	if anchor.IsZero() {
		return nil, ErrMissingAnchor
	}

	if rangeStart.After(rangeEnd) {
		return nil, ErrInvalidTimeRange
	}

	days := make(DaySet)

	for _, entry := range entries {
		if !IsChannelVisible(entry, channel) {
			continue
		}

		instant, err := ResolveOffset(anchor, entry.Hour())
		if err != nil {
			return nil, err
		}

		if instant.Before(rangeStart) || instant.After(rangeEnd) {
			continue
		}

		days[DayKey(instant, loc)] = struct{}{}
	}

	return days, nil
}

// SchedulesOnDay filters entries to those whose resolved instant falls on
// day's calendar day in loc, the half-open [StartOfDay, EndOfDay). No
// channel filter is applied.
func SchedulesOnDay(
	entries []ScheduleEntry,
	anchor time.Time,
	day time.Time,
	loc *time.Location,
) ([]ScheduleEntry, error) {
	if anchor.IsZero() {
		return nil, ErrMissingAnchor
	}

	dayStart := StartOfDay(day, loc)
	dayEnd := EndOfDay(day, loc)

	matched := make([]ScheduleEntry, 0)

	for _, entry := range entries {
		instant, err := ResolveOffset(anchor, entry.Hour())
		if err != nil {
			return nil, err
		}

		if instant.Before(dayStart) || !instant.Before(dayEnd) {
			continue
		}

		matched = append(matched, entry)
	}

	return matched, nil
}

// DayScheduleByHour builds the single-day detail view: entries on day's
// calendar day, grouped by display hour (cumulative offset modulo 24).
// Filled slots are kept when channel-visible; break slots are kept
// unconditionally, regardless of the channel filter.
func DayScheduleByHour(
	entries []ScheduleEntry,
	anchor time.Time,
	channel Channel,
	day time.Time,
	loc *time.Location,
) (map[int][]ScheduleEntry, error) {
	onDay, err := SchedulesOnDay(entries, anchor, day, loc)
	if err != nil {
		return nil, err
	}

	grouped := make(map[int][]ScheduleEntry)

	for _, entry := range onDay {
		switch entry.(type) {
		case FilledSlot:
			if !IsChannelVisible(entry, channel) {
				continue
			}
		case BreakSlot:
			// breaks always show in the day view
		}

		hour := entry.Hour().DisplayHour()
		grouped[hour] = append(grouped[hour], entry)
	}

	return grouped, nil
}
