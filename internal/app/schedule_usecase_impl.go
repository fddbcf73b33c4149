package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tiara-stack/tiara-stack/internal/derive"
	"github.com/tiara-stack/tiara-stack/internal/domain"
	"github.com/tiara-stack/tiara-stack/internal/infra/upstream"
)

type scheduleUseCaseImpl struct {
	registry    *derive.Registry
	client      upstream.Client
	defaultZone domain.Zone
}

func NewScheduleUseCase(registry *derive.Registry, client upstream.Client, defaultZone domain.Zone) ScheduleUseCase {
	if defaultZone.IsZero() {
		defaultZone = domain.UTCZone()
	}

	return &scheduleUseCaseImpl{
		registry:    registry,
		client:      client,
		defaultZone: defaultZone,
	}
}

// resolveZone maps the request zone string to a Zone, falling back to the
// configured default when empty.
func (uc *scheduleUseCaseImpl) resolveZone(id string) (domain.Zone, error) {
	if id == "" {
		return uc.defaultZone, nil
	}

	zone, err := domain.ZoneFromString(id)
	if err != nil {
		return domain.Zone{}, NewValidationError("zone", err.Error())
	}

	return zone, nil
}

// schedulesNode reads the raw schedule collection for a community through
// the derivation graph. The node carries the session tag, so an identity
// invalidation forces a refetch on the next read.
func (uc *scheduleUseCaseImpl) schedulesNode(ctx context.Context, tr *derive.Tracker, communityID domain.CommunityID) ([]domain.ScheduleEntry, error) {
	return derive.TrackAs(ctx, tr, scheduleFetchKey(communityID.String()),
		derive.ReadOptions{Tags: []string{TagSession}},
		func(ctx context.Context, _ *derive.Tracker) ([]domain.ScheduleEntry, error) {
			return uc.client.FetchSchedules(ctx, communityID)
		})
}

func (uc *scheduleUseCaseImpl) eventConfigNode(ctx context.Context, tr *derive.Tracker, communityID domain.CommunityID) (domain.EventConfig, error) {
	return derive.TrackAs(ctx, tr, eventConfigKey(communityID.String()),
		derive.ReadOptions{Tags: []string{TagSession}},
		func(ctx context.Context, _ *derive.Tracker) (domain.EventConfig, error) {
			return uc.client.FetchEventConfig(ctx, communityID)
		})
}

// wrapError passes through domain sentinels the presentation layer maps to
// specific statuses, and folds everything unexpected into ErrInternalError.
func wrapError(err error) error {
	switch {
	case err == nil:
		return nil
	case IsValidationError(err):
		return err
	case errors.Is(err, domain.ErrMissingAnchor),
		errors.Is(err, domain.ErrUpstreamFetch),
		errors.Is(err, domain.ErrInvalidTimeRange),
		errors.Is(err, ErrNotFound):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
}

func (uc *scheduleUseCaseImpl) GetCalendarDays(ctx context.Context, input GetCalendarDaysInput) (*CalendarDaysOutput, error) {
	slog.Debug("building calendar days",
		"month", input.Month,
		"zone", input.Zone,
	)

	zone, err := uc.resolveZone(input.Zone)
	if err != nil {
		return nil, err
	}

	loc := zone.Location()

	monthAnchor, err := time.ParseInLocation("2006-01", input.Month, loc)
	if err != nil {
		return nil, NewValidationError("month", "must be in YYYY-MM format")
	}

	output, err := derive.ReadAs(ctx, uc.registry, monthGridKey(input.Month, zone.ID()),
		derive.ReadOptions{},
		func(_ context.Context, _ *derive.Tracker) (*CalendarDaysOutput, error) {
			grid := domain.MonthGrid(monthAnchor, loc)

			return calendarDaysFromGrid(input.Month, zone.ID(), monthAnchor, grid, loc), nil
		})
	if err != nil {
		slog.Error("failed to build calendar days",
			"error", err,
			"month", input.Month,
		)

		return nil, wrapError(err)
	}

	return output, nil
}

func (uc *scheduleUseCaseImpl) GetScheduledDayKeys(ctx context.Context, input GetScheduledDayKeysInput) (*ScheduledDaysOutput, error) {
	slog.Debug("deriving scheduled day keys",
		"community_id", input.CommunityID,
		"channel", input.Channel,
		"zone", input.Zone,
		"range_start_ms", input.RangeStartMs,
		"range_end_ms", input.RangeEndMs,
	)

	communityID, err := domain.CommunityIDFromString(input.CommunityID)
	if err != nil {
		return nil, NewValidationError("community_id", err.Error())
	}

	channel, err := domain.ChannelFromString(input.Channel)
	if err != nil {
		return nil, NewValidationError("channel", err.Error())
	}

	zone, err := uc.resolveZone(input.Zone)
	if err != nil {
		return nil, err
	}

	if input.RangeStartMs > input.RangeEndMs {
		return nil, NewValidationError("range_start", "must not be after range_end")
	}

	rangeStart := time.UnixMilli(input.RangeStartMs).UTC()
	rangeEnd := time.UnixMilli(input.RangeEndMs).UTC()
	loc := zone.Location()

	key := scheduledDaysKey(communityID.String(), channel.String(), zone.ID(), input.RangeStartMs, input.RangeEndMs)

	output, err := derive.ReadAs(ctx, uc.registry, key,
		derive.ReadOptions{},
		func(ctx context.Context, tr *derive.Tracker) (*ScheduledDaysOutput, error) {
			entries, err := uc.schedulesNode(ctx, tr, communityID)
			if err != nil {
				return nil, err
			}

			config, err := uc.eventConfigNode(ctx, tr, communityID)
			if err != nil {
				return nil, err
			}

			days, err := domain.ScheduledDayKeys(entries, config.StartTime(), channel, loc, rangeStart, rangeEnd)
			if err != nil {
				return nil, err
			}

			keys := days.Keys()

			return &ScheduledDaysOutput{
				Days:  keys,
				Count: len(keys),
			}, nil
		})
	if err != nil {
		slog.Error("failed to derive scheduled day keys",
			"error", err,
			"community_id", input.CommunityID,
			"channel", input.Channel,
		)

		return nil, wrapError(err)
	}

	return output, nil
}

func (uc *scheduleUseCaseImpl) GetDistinctChannels(ctx context.Context, input GetDistinctChannelsInput) (*ChannelsOutput, error) {
	slog.Debug("deriving distinct channels",
		"community_id", input.CommunityID,
	)

	communityID, err := domain.CommunityIDFromString(input.CommunityID)
	if err != nil {
		return nil, NewValidationError("community_id", err.Error())
	}

	output, err := derive.ReadAs(ctx, uc.registry, channelsKey(communityID.String()),
		derive.ReadOptions{},
		func(ctx context.Context, tr *derive.Tracker) (*ChannelsOutput, error) {
			entries, err := uc.schedulesNode(ctx, tr, communityID)
			if err != nil {
				return nil, err
			}

			channels := domain.DistinctChannels(entries)

			return &ChannelsOutput{
				Channels: channels,
				Count:    len(channels),
			}, nil
		})
	if err != nil {
		slog.Error("failed to derive distinct channels",
			"error", err,
			"community_id", input.CommunityID,
		)

		return nil, wrapError(err)
	}

	return output, nil
}

func (uc *scheduleUseCaseImpl) GetDaySchedule(ctx context.Context, input GetDayScheduleInput) (*DayScheduleOutput, error) {
	slog.Debug("deriving day schedule",
		"community_id", input.CommunityID,
		"channel", input.Channel,
		"date", input.Date,
		"zone", input.Zone,
	)

	communityID, err := domain.CommunityIDFromString(input.CommunityID)
	if err != nil {
		return nil, NewValidationError("community_id", err.Error())
	}

	channel, err := domain.ChannelFromString(input.Channel)
	if err != nil {
		return nil, NewValidationError("channel", err.Error())
	}

	zone, err := uc.resolveZone(input.Zone)
	if err != nil {
		return nil, err
	}

	loc := zone.Location()

	day, err := time.ParseInLocation("2006-01-02", input.Date, loc)
	if err != nil {
		return nil, NewValidationError("date", "must be in YYYY-MM-DD format")
	}

	key := dayScheduleKey(communityID.String(), channel.String(), input.Date, zone.ID())

	output, err := derive.ReadAs(ctx, uc.registry, key,
		derive.ReadOptions{},
		func(ctx context.Context, tr *derive.Tracker) (*DayScheduleOutput, error) {
			entries, err := uc.schedulesNode(ctx, tr, communityID)
			if err != nil {
				return nil, err
			}

			config, err := uc.eventConfigNode(ctx, tr, communityID)
			if err != nil {
				return nil, err
			}

			grouped, err := domain.DayScheduleByHour(entries, config.StartTime(), channel, day, loc)
			if err != nil {
				return nil, err
			}

			return dayScheduleFromGroups(input.Date, grouped), nil
		})
	if err != nil {
		slog.Error("failed to derive day schedule",
			"error", err,
			"community_id", input.CommunityID,
			"channel", input.Channel,
			"date", input.Date,
		)

		return nil, wrapError(err)
	}

	return output, nil
}

func (uc *scheduleUseCaseImpl) InvalidateIdentity() {
	slog.Info("invalidating session-tagged derivations")

	uc.registry.Invalidate(TagSession)
}
