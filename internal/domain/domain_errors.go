package domain

import "errors"

var (
	ErrMissingAnchor = errors.New("event anchor is missing or unset")

	ErrInvalidTimeRange = errors.New("invalid time range: start must not be after end")
	ErrInvalidZone      = errors.New("invalid timezone identifier")
	ErrInvalidHour      = errors.New("hour offset must not be negative")

	ErrInvalidCommunityID = errors.New("invalid community ID")
	ErrInvalidChannel     = errors.New("invalid channel name")

	ErrUpstreamFetch = errors.New("upstream fetch failed")
)
