package domain

// HourOffset is a cumulative hour count measured from a community's event
// anchor. It is not a 0-23 wall-clock hour: day 2 of an event begins at
// offset 48. The zero value means "absent"; an absent offset resolves as 0.
type HourOffset struct {
	value int
	valid bool
}

func NewHourOffset(hours int) (HourOffset, error) {
	if hours < 0 {
		return HourOffset{}, ErrInvalidHour
	}

	return HourOffset{value: hours, valid: true}, nil
}

func MustHourOffset(hours int) HourOffset {
	h, err := NewHourOffset(hours)
	if err != nil {
		panic(err)
	}

	return h
}

func NoHourOffset() HourOffset {
	return HourOffset{}
}

// Value returns the cumulative hour count and whether it was present.
func (h HourOffset) Value() (int, bool) {
	return h.value, h.valid
}

// OrZero returns the cumulative hour count, defaulting an absent offset to 0.
func (h HourOffset) OrZero() int {
	if !h.valid {
		return 0
	}

	return h.value
}

// DisplayHour returns the 0-23 wall-clock hour used for single-day grouping.
// Range membership must never use this; it always uses the full cumulative
// value.
func (h HourOffset) DisplayHour() int {
	return h.OrZero() % 24
}

func (h HourOffset) IsPresent() bool {
	return h.valid
}
