package domain

import "strings"

// Channel is the name of a fill channel within a community's schedule sheet.
type Channel struct {
	value string
}

func ChannelFromString(s string) (Channel, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Channel{}, ErrInvalidChannel
	}

	return Channel{value: trimmed}, nil
}

func (c Channel) String() string {
	return c.value
}

func (c Channel) IsZero() bool {
	return c.value == ""
}

func (c Channel) Equals(other Channel) bool {
	return c.value == other.value
}
