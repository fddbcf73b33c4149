package app

import "context"

// ScheduleUseCase exposes the calendar and schedule views to the
// presentation layer. Every read is served through the derivation graph:
// identical parameters return the cached value without touching the
// upstream query service.
type ScheduleUseCase interface {
	GetCalendarDays(ctx context.Context, input GetCalendarDaysInput) (*CalendarDaysOutput, error)
	GetScheduledDayKeys(ctx context.Context, input GetScheduledDayKeysInput) (*ScheduledDaysOutput, error)
	GetDistinctChannels(ctx context.Context, input GetDistinctChannelsInput) (*ChannelsOutput, error)
	GetDaySchedule(ctx context.Context, input GetDayScheduleInput) (*DayScheduleOutput, error)

	// InvalidateIdentity fires the session invalidation tag: every cached
	// derivation tied to the authenticated identity recomputes from a
	// fresh upstream fetch on its next read.
	InvalidateIdentity()
}
