package app

type GetCalendarDaysInput struct {
	// Month is the anchor month in YYYY-MM form.
	Month string
	// Zone is the display timezone identifier; empty selects the
	// configured default.
	Zone string
}

type GetScheduledDayKeysInput struct {
	CommunityID string
	Channel     string
	Zone        string
	// RangeStartMs and RangeEndMs bound the range as epoch milliseconds,
	// inclusive on both ends.
	RangeStartMs int64
	RangeEndMs   int64
}

type GetDistinctChannelsInput struct {
	CommunityID string
}

type GetDayScheduleInput struct {
	CommunityID string
	Channel     string
	// Date is the target calendar day in YYYY-MM-DD form, interpreted in
	// Zone.
	Date string
	Zone string
}
