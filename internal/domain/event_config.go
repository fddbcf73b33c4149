package domain

import "time"

// EventConfig is the per-community event configuration fetched from the
// upstream query service. StartTime is the anchor instant from which every
// cumulative hour offset in the community's schedule is measured. It is a
// read-only snapshot: immutable for the lifetime of a cache generation.
type EventConfig struct {
	startTime time.Time
}

func NewEventConfig(startTime time.Time) (EventConfig, error) {
	if startTime.IsZero() {
		return EventConfig{}, ErrMissingAnchor
	}

	return EventConfig{startTime: startTime.UTC()}, nil
}

func (e EventConfig) StartTime() time.Time {
	return e.startTime
}

func (e EventConfig) IsZero() bool {
	return e.startTime.IsZero()
}
