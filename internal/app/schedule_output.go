package app

import (
	"time"

	"github.com/tiara-stack/tiara-stack/internal/domain"
)

const (
	EntryKindFilled = "filled"
	EntryKindBreak  = "break"
)

// Outputs are cached as derivation node values and shared between
// readers, so they are treated as immutable once built.

type CalendarDayOutput struct {
	DayKey      string
	TimestampMs int64
	InMonth     bool
}

type CalendarDaysOutput struct {
	Month string
	Zone  string
	Days  []CalendarDayOutput
}

type ScheduledDaysOutput struct {
	Days  []string
	Count int
}

type ChannelsOutput struct {
	Channels []string
	Count    int
}

type FillOutput struct {
	Name       string
	Emphasized bool
}

type ScheduleEntryOutput struct {
	Kind        string
	Channel     string
	Hour        int
	DisplayHour int
	Day         int
	Fills       []FillOutput
}

type HourGroupOutput struct {
	Hour    int
	Entries []ScheduleEntryOutput
}

type DayScheduleOutput struct {
	Date string
	// Hours holds the non-empty display-hour groups in ascending order.
	Hours []HourGroupOutput
}

func calendarDaysFromGrid(month, zone string, anchor time.Time, grid []time.Time, loc *time.Location) *CalendarDaysOutput {
	days := make([]CalendarDayOutput, 0, len(grid))
	for _, day := range grid {
		days = append(days, CalendarDayOutput{
			DayKey:      domain.DayKey(day, loc),
			TimestampMs: day.UnixMilli(),
			InMonth:     domain.IsSameMonth(day, anchor, loc),
		})
	}

	return &CalendarDaysOutput{
		Month: month,
		Zone:  zone,
		Days:  days,
	}
}

func entryOutputFromDomain(entry domain.ScheduleEntry) ScheduleEntryOutput {
	switch e := entry.(type) {
	case domain.FilledSlot:
		fills := make([]FillOutput, 0, len(e.Fills))
		for _, fill := range e.Fills {
			fills = append(fills, FillOutput{
				Name:       fill.ParticipantName,
				Emphasized: fill.Emphasized,
			})
		}

		return ScheduleEntryOutput{
			Kind:        EntryKindFilled,
			Channel:     e.Channel,
			Hour:        e.HourOffset.OrZero(),
			DisplayHour: e.HourOffset.DisplayHour(),
			Day:         e.DayIndex,
			Fills:       fills,
		}

	case domain.BreakSlot:
		return ScheduleEntryOutput{
			Kind:        EntryKindBreak,
			Hour:        e.HourOffset.OrZero(),
			DisplayHour: e.HourOffset.DisplayHour(),
			Day:         e.DayIndex,
		}

	default:
		// The entry sum is closed; new variants must be handled here.
		return ScheduleEntryOutput{}
	}
}

func dayScheduleFromGroups(date string, grouped map[int][]domain.ScheduleEntry) *DayScheduleOutput {
	hours := make([]HourGroupOutput, 0, len(grouped))

	for hour := 0; hour < 24; hour++ {
		entries, ok := grouped[hour]
		if !ok {
			continue
		}

		outputs := make([]ScheduleEntryOutput, 0, len(entries))
		for _, entry := range entries {
			outputs = append(outputs, entryOutputFromDomain(entry))
		}

		hours = append(hours, HourGroupOutput{
			Hour:    hour,
			Entries: outputs,
		})
	}

	return &DayScheduleOutput{
		Date:  date,
		Hours: hours,
	}
}
