package domain

import (
	"fmt"
	"time"
)

// Zone pairs a timezone identifier with its resolved location. Identifiers
// are IANA names ("Asia/Tokyo") or fixed offsets ("+09:00", "-05:30").
// All calendar logic in this package evaluates instants through a Zone's
// location, never through raw absolute time.
type Zone struct {
	id  string
	loc *time.Location
}

func ZoneFromString(id string) (Zone, error) {
	if id == "" {
		return Zone{}, ErrInvalidZone
	}

	if loc, ok := parseFixedOffset(id); ok {
		return Zone{id: id, loc: loc}, nil
	}

	loc, err := time.LoadLocation(id)
	if err != nil {
		return Zone{}, fmt.Errorf("%w: %v", ErrInvalidZone, err)
	}

	return Zone{id: id, loc: loc}, nil
}

func UTCZone() Zone {
	return Zone{id: "UTC", loc: time.UTC}
}

// parseFixedOffset handles "+HH:MM" and "-HH:MM" identifiers.
func parseFixedOffset(id string) (*time.Location, bool) {
	if len(id) != 6 || (id[0] != '+' && id[0] != '-') || id[3] != ':' {
		return nil, false
	}

	var hours, minutes int
	if _, err := fmt.Sscanf(id[1:], "%02d:%02d", &hours, &minutes); err != nil {
		return nil, false
	}

	if hours > 23 || minutes > 59 {
		return nil, false
	}

	seconds := hours*3600 + minutes*60
	if id[0] == '-' {
		seconds = -seconds
	}

	return time.FixedZone(id, seconds), true
}

func (z Zone) ID() string {
	return z.id
}

func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return time.UTC
	}

	return z.loc
}

func (z Zone) IsZero() bool {
	return z.id == ""
}
