package domain

import "sort"

// ScheduleEntry is the closed set of schedule slot variants parsed from a
// community's sheet. The only implementations are FilledSlot and BreakSlot;
// consumers type-switch over exactly these two.
type ScheduleEntry interface {
	// Hour is the cumulative hour offset of the slot relative to the
	// community's event anchor. When present it is authoritative; the Day
	// field is derivable and never consulted for time computation.
	Hour() HourOffset
	Day() int

	scheduleEntry()
}

// Fill is one participant assigned to a filled slot. Fills are irrelevant
// to time computation and pass through aggregation unchanged.
type Fill struct {
	ParticipantName string
	Emphasized      bool
}

// FilledSlot is a slot with a channel, visibility, and assigned fills.
type FilledSlot struct {
	Channel    string
	Visible    bool
	HourOffset HourOffset
	DayIndex   int
	Fills      []Fill
}

func (s FilledSlot) Hour() HourOffset { return s.HourOffset }
func (s FilledSlot) Day() int         { return s.DayIndex }
func (s FilledSlot) scheduleEntry()   {}

// BreakSlot is a slot with no channel, visibility, or fills. It never
// matches a channel filter but is shown unconditionally in the single-day
// view.
type BreakSlot struct {
	HourOffset HourOffset
	DayIndex   int
}

func (s BreakSlot) Hour() HourOffset { return s.HourOffset }
func (s BreakSlot) Day() int         { return s.DayIndex }
func (s BreakSlot) scheduleEntry()   {}

// IsChannelVisible reports whether entry should appear under the given
// channel filter: only visible filled slots with a matching channel do.
func IsChannelVisible(entry ScheduleEntry, channel Channel) bool {
	filled, ok := entry.(FilledSlot)
	if !ok {
		return false
	}

	return filled.Channel == channel.String() && filled.Visible
}

// DistinctChannels projects the channel names of all filled slots,
// deduplicated and sorted ascending. Break slots carry no channel and do
// not contribute.
func DistinctChannels(entries []ScheduleEntry) []string {
	seen := make(map[string]struct{})
	for _, entry := range entries {
		if filled, ok := entry.(FilledSlot); ok {
			seen[filled.Channel] = struct{}{}
		}
	}

	channels := make([]string, 0, len(seen))
	for channel := range seen {
		channels = append(channels, channel)
	}

	sort.Strings(channels)

	return channels
}
