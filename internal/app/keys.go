package app

import "fmt"

// TagSession marks derivation nodes whose values depend on the
// upstream identity. Invalidating it forces a refetch on next read.
const TagSession = "session"

func scheduleFetchKey(communityID string) string {
	return fmt.Sprintf("schedule.fetch.%s", communityID)
}

func eventConfigKey(communityID string) string {
	return fmt.Sprintf("sheet.eventConfig.%s", communityID)
}

func scheduledDaysKey(communityID, channel, zone string, startMs, endMs int64) string {
	return fmt.Sprintf("schedule.derived.scheduledDays.%s.%s.%s.%d-%d", communityID, channel, zone, startMs, endMs)
}

func channelsKey(communityID string) string {
	return fmt.Sprintf("schedule.derived.channels.%s", communityID)
}

func monthGridKey(month, zone string) string {
	return fmt.Sprintf("calendar.monthGrid.%s.%s", month, zone)
}

func dayScheduleKey(communityID, channel, date, zone string) string {
	return fmt.Sprintf("schedule.derived.daySchedule.%s.%s.%s.%s", communityID, channel, date, zone)
}
