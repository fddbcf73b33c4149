package handler

type GetCalendarDaysRequest struct {
	Month string `form:"month" binding:"required"`
	Zone  string `form:"zone"`
}

type GetScheduledDaysRequest struct {
	Channel string `form:"channel" binding:"required"`
	Zone    string `form:"zone"`
	// Epoch milliseconds, inclusive on both ends. Bound as pointers so an
	// explicit range_start=0 passes the required check; ordering is
	// validated in the use case.
	RangeStart *int64 `form:"range_start" binding:"required"`
	RangeEnd   *int64 `form:"range_end" binding:"required"`
}

type GetDayScheduleRequest struct {
	Channel string `form:"channel" binding:"required"`
	Date    string `form:"date" binding:"required"`
	Zone    string `form:"zone"`
}
