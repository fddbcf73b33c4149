package upstream

import (
	"context"

	"github.com/tiara-stack/tiara-stack/internal/domain"
)

//go:generate mockgen -source=client.go -destination=client_mock.go -package=upstream

// Client is the query boundary to the sheet service that owns the raw
// schedule collection and per-community event configuration. Results are
// read-only snapshots; the engine never writes back.
type Client interface {
	FetchSchedules(ctx context.Context, communityID domain.CommunityID) ([]domain.ScheduleEntry, error)
	FetchEventConfig(ctx context.Context, communityID domain.CommunityID) (domain.EventConfig, error)
}
