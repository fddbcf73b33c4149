package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tiara-stack/tiara-stack/internal/domain"
	"github.com/tiara-stack/tiara-stack/internal/infra/snapshot"
)

const (
	resourceSchedules   = "schedules"
	resourceEventConfig = "event-config"
)

// HTTPClient fetches schedule collections and event configuration from the
// sheet query service over HTTP. When a snapshot store is attached, raw
// payloads are read through it so restarted processes reuse recent
// fetches.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	snapshots  *snapshot.Store
}

// NewHTTPClient builds a client for the given base URL. snapshots may be
// nil to disable the read-through layer.
func NewHTTPClient(baseURL string, timeout time.Duration, snapshots *snapshot.Store) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base URL: %w", err)
	}

	return &HTTPClient{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		snapshots:  snapshots,
	}, nil
}

func (c *HTTPClient) FetchSchedules(ctx context.Context, communityID domain.CommunityID) ([]domain.ScheduleEntry, error) {
	slog.Debug("fetching schedules",
		"community_id", communityID.String(),
	)

	payload, err := c.fetch(ctx,
		fmt.Sprintf("/api/schedule/%s", communityID.String()),
		snapshot.Key(communityID.String(), resourceSchedules),
	)
	if err != nil {
		return nil, err
	}

	var wires []scheduleWire
	if err := json.Unmarshal(payload, &wires); err != nil {
		return nil, fmt.Errorf("%w: decoding schedules: %v", domain.ErrUpstreamFetch, err)
	}

	entries := make([]domain.ScheduleEntry, 0, len(wires))
	for i, wire := range wires {
		entry, err := wire.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: schedule entry %d: %v", domain.ErrUpstreamFetch, i, err)
		}

		entries = append(entries, entry)
	}

	slog.Debug("schedules fetched",
		"community_id", communityID.String(),
		"count", len(entries),
	)

	return entries, nil
}

func (c *HTTPClient) FetchEventConfig(ctx context.Context, communityID domain.CommunityID) (domain.EventConfig, error) {
	slog.Debug("fetching event config",
		"community_id", communityID.String(),
	)

	payload, err := c.fetch(ctx,
		fmt.Sprintf("/api/event-config/%s", communityID.String()),
		snapshot.Key(communityID.String(), resourceEventConfig),
	)
	if err != nil {
		return domain.EventConfig{}, err
	}

	var wire eventConfigWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return domain.EventConfig{}, fmt.Errorf("%w: decoding event config: %v", domain.ErrUpstreamFetch, err)
	}

	return wire.toDomain()
}

// fetch returns a resource's raw payload, consulting the snapshot store
// first and populating it after a successful upstream request. Snapshot
// failures degrade to a direct fetch; they never fail the request.
func (c *HTTPClient) fetch(ctx context.Context, path, snapshotKey string) ([]byte, error) {
	if c.snapshots != nil {
		payload, hit, err := c.snapshots.Get(ctx, snapshotKey)
		if err != nil {
			slog.Warn("snapshot read failed, falling through to upstream",
				"key", snapshotKey,
				"error", err,
			)
		} else if hit {
			slog.Debug("snapshot hit",
				"key", snapshotKey,
			)

			return payload, nil
		}
	}

	target := c.baseURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", domain.ErrUpstreamFetch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", domain.ErrUpstreamFetch, resp.StatusCode, path)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrUpstreamFetch, err)
	}

	if c.snapshots != nil {
		if err := c.snapshots.Set(ctx, snapshotKey, payload); err != nil {
			slog.Warn("snapshot write failed",
				"key", snapshotKey,
				"error", err,
			)
		}
	}

	return payload, nil
}
