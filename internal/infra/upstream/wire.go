package upstream

import (
	"fmt"
	"time"

	"github.com/tiara-stack/tiara-stack/internal/domain"
)

const (
	kindFilled = "filled"
	kindBreak  = "break"
)

// scheduleWire is one slot as serialized by the sheet query service.
// Fills may contain nulls for unassigned positions; they are dropped at
// this boundary with order preserved.
type scheduleWire struct {
	Kind    string      `json:"kind"`
	Channel string      `json:"channel"`
	Visible bool        `json:"visible"`
	Hour    *int        `json:"hour"`
	Day     int         `json:"day"`
	Fills   []*fillWire `json:"fills"`
}

type fillWire struct {
	Name       string `json:"name"`
	Emphasized bool   `json:"emphasized"`
}

type eventConfigWire struct {
	StartTime string `json:"startTime"`
}

func (w scheduleWire) toDomain() (domain.ScheduleEntry, error) {
	hour := domain.NoHourOffset()

	if w.Hour != nil {
		parsed, err := domain.NewHourOffset(*w.Hour)
		if err != nil {
			return nil, fmt.Errorf("schedule entry hour %d: %w", *w.Hour, err)
		}

		hour = parsed
	}

	switch w.Kind {
	case kindFilled:
		fills := make([]domain.Fill, 0, len(w.Fills))
		for _, fill := range w.Fills {
			if fill == nil {
				continue
			}

			fills = append(fills, domain.Fill{
				ParticipantName: fill.Name,
				Emphasized:      fill.Emphasized,
			})
		}

		return domain.FilledSlot{
			Channel:    w.Channel,
			Visible:    w.Visible,
			HourOffset: hour,
			DayIndex:   w.Day,
			Fills:      fills,
		}, nil

	case kindBreak:
		return domain.BreakSlot{
			HourOffset: hour,
			DayIndex:   w.Day,
		}, nil

	default:
		return nil, fmt.Errorf("unknown schedule entry kind %q", w.Kind)
	}
}

func (w eventConfigWire) toDomain() (domain.EventConfig, error) {
	if w.StartTime == "" {
		return domain.EventConfig{}, domain.ErrMissingAnchor
	}

	startTime, err := time.Parse(time.RFC3339, w.StartTime)
	if err != nil {
		return domain.EventConfig{}, fmt.Errorf("%w: unparsable start time %q", domain.ErrMissingAnchor, w.StartTime)
	}

	return domain.NewEventConfig(startTime)
}
