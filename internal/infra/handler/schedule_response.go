package handler

import (
	"github.com/tiara-stack/tiara-stack/internal/app"
)

type CalendarDayResponse struct {
	DayKey      string `json:"day_key"`
	TimestampMs int64  `json:"timestamp_ms"`
	InMonth     bool   `json:"in_month"`
}

type CalendarDaysResponse struct {
	Month string                `json:"month"`
	Zone  string                `json:"zone"`
	Days  []CalendarDayResponse `json:"days"`
	Count int                   `json:"count"`
}

type ScheduledDaysResponse struct {
	Days  []string `json:"days"`
	Count int      `json:"count"`
}

type ChannelsResponse struct {
	Channels []string `json:"channels"`
	Count    int      `json:"count"`
}

type FillResponse struct {
	Name       string `json:"name"`
	Emphasized bool   `json:"emphasized"`
}

type ScheduleEntryResponse struct {
	Kind        string         `json:"kind"`
	Channel     string         `json:"channel,omitempty"`
	Hour        int            `json:"hour"`
	DisplayHour int            `json:"display_hour"`
	Day         int            `json:"day"`
	Fills       []FillResponse `json:"fills,omitempty"`
}

type HourGroupResponse struct {
	Hour    int                     `json:"hour"`
	Entries []ScheduleEntryResponse `json:"entries"`
}

type DayScheduleResponse struct {
	Date  string              `json:"date"`
	Hours []HourGroupResponse `json:"hours"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func FromCalendarDaysDTO(output *app.CalendarDaysOutput) CalendarDaysResponse {
	days := make([]CalendarDayResponse, 0, len(output.Days))
	for _, day := range output.Days {
		days = append(days, CalendarDayResponse{
			DayKey:      day.DayKey,
			TimestampMs: day.TimestampMs,
			InMonth:     day.InMonth,
		})
	}

	return CalendarDaysResponse{
		Month: output.Month,
		Zone:  output.Zone,
		Days:  days,
		Count: len(days),
	}
}

func FromScheduledDaysDTO(output *app.ScheduledDaysOutput) ScheduledDaysResponse {
	days := output.Days
	if days == nil {
		days = []string{}
	}

	return ScheduledDaysResponse{
		Days:  days,
		Count: output.Count,
	}
}

func FromChannelsDTO(output *app.ChannelsOutput) ChannelsResponse {
	channels := output.Channels
	if channels == nil {
		channels = []string{}
	}

	return ChannelsResponse{
		Channels: channels,
		Count:    output.Count,
	}
}

func FromDayScheduleDTO(output *app.DayScheduleOutput) DayScheduleResponse {
	hours := make([]HourGroupResponse, 0, len(output.Hours))
	for _, group := range output.Hours {
		entries := make([]ScheduleEntryResponse, 0, len(group.Entries))
		for _, entry := range group.Entries {
			var fills []FillResponse
			for _, fill := range entry.Fills {
				fills = append(fills, FillResponse{
					Name:       fill.Name,
					Emphasized: fill.Emphasized,
				})
			}

			entries = append(entries, ScheduleEntryResponse{
				Kind:        entry.Kind,
				Channel:     entry.Channel,
				Hour:        entry.Hour,
				DisplayHour: entry.DisplayHour,
				Day:         entry.Day,
				Fills:       fills,
			})
		}

		hours = append(hours, HourGroupResponse{
			Hour:    group.Hour,
			Entries: entries,
		})
	}

	return DayScheduleResponse{
		Date:  output.Date,
		Hours: hours,
	}
}
