package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"livestream-sync/core/event"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	listParts   = []string{"id", "snippet", "status"}
	insertParts = []string{"id", "snippet", "status", "contentDetails"}
)

// Client manages live broadcasts of the authorized channel.
type Client struct {
	svc      *youtube.Service
	settings BroadcastSettings
	logger   *zap.Logger
}

// NewClient creates a client. Authentication is supplied through opts,
// usually option.WithHTTPClient with the client returned by HTTPClient.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Client{svc: svc, settings: cfg.Broadcast, logger: logger}, nil
}

// ListActiveAndUpcoming returns all broadcasts that have not ended.
// Broadcasts with unparseable times are logged and skipped.
func (c *Client) ListActiveAndUpcoming(ctx context.Context) ([]event.Broadcast, error) {
	seen := make(map[string]struct{})
	var out []event.Broadcast
	for _, status := range []string{"active", "upcoming"} {
		call := c.svc.LiveBroadcasts.List(listParts).BroadcastStatus(status).MaxResults(50)
		err := call.Pages(ctx, func(resp *youtube.LiveBroadcastListResponse) error {
			for _, lb := range resp.Items {
				if _, dup := seen[lb.Id]; dup {
					continue
				}
				seen[lb.Id] = struct{}{}
				b, err := toBroadcast(lb)
				if err != nil {
					c.logger.Warn("Skipping broadcast with malformed data", zap.String("video_id", lb.Id), zap.Error(err))
					continue
				}
				out = append(out, b)
			}
			return nil
		})
		if err != nil {
			return nil, remoteError(http.MethodGet, "liveBroadcasts?broadcastStatus="+status, err)
		}
	}
	c.logger.Debug("Listed broadcasts", zap.Int("count", len(out)))
	return out, nil
}

// Get returns the broadcast with id in any state, or nil if there is none.
func (c *Client) Get(ctx context.Context, id string) (*event.Broadcast, error) {
	resp, err := c.svc.LiveBroadcasts.List(listParts).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, remoteError(http.MethodGet, "liveBroadcasts?id="+id, err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	b, err := toBroadcast(resp.Items[0])
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create schedules a broadcast with the configured technical settings.
func (c *Client) Create(ctx context.Context, spec event.BroadcastSpec) (event.Broadcast, error) {
	lb := &youtube.LiveBroadcast{
		Snippet:        snippet(spec.Title, spec.Description, spec.Start, spec.End),
		Status:         c.settings.status(spec.Privacy),
		ContentDetails: c.settings.contentDetails(),
	}
	created, err := c.svc.LiveBroadcasts.Insert(insertParts, lb).Context(ctx).Do()
	if err != nil {
		return event.Broadcast{}, remoteError(http.MethodPost, "liveBroadcasts", err)
	}
	c.logger.Info("Created broadcast", zap.String("video_id", created.Id))
	return toBroadcast(created)
}

// BindIngest binds a broadcast to an ingest stream.
func (c *Client) BindIngest(ctx context.Context, broadcastID, streamID string) error {
	_, err := c.svc.LiveBroadcasts.Bind(broadcastID, []string{"id"}).StreamId(streamID).Context(ctx).Do()
	if err != nil {
		return remoteError(http.MethodPost, "liveBroadcasts/bind", err)
	}
	return nil
}

// Update sends the changed parts of a broadcast. The API replaces whole
// parts, so a part is rebuilt from current with the patch applied.
func (c *Client) Update(ctx context.Context, current event.Broadcast, patch event.BroadcastPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	next := current.Apply(patch)
	lb := &youtube.LiveBroadcast{Id: current.ID}
	var parts []string
	if patch.TouchesSnippet() {
		parts = append(parts, "snippet")
		lb.Snippet = snippet(next.Title, next.Description, next.ScheduledStart, next.ScheduledEnd)
	}
	if patch.Privacy != nil {
		parts = append(parts, "status")
		lb.Status = c.settings.status(next.Privacy)
	}
	if _, err := c.svc.LiveBroadcasts.Update(parts, lb).Context(ctx).Do(); err != nil {
		return remoteError(http.MethodPut, "liveBroadcasts", err)
	}
	return nil
}

// SetThumbnail uploads the thumbnail image of a broadcast.
func (c *Client) SetThumbnail(ctx context.Context, broadcastID string, image io.Reader) error {
	if _, err := c.svc.Thumbnails.Set(broadcastID).Media(image).Context(ctx).Do(); err != nil {
		return remoteError(http.MethodPost, "thumbnails/set", err)
	}
	return nil
}

// Delete removes a broadcast.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.svc.LiveBroadcasts.Delete(id).Context(ctx).Do(); err != nil {
		return remoteError(http.MethodDelete, "liveBroadcasts", err)
	}
	c.logger.Info("Deleted broadcast", zap.String("video_id", id))
	return nil
}
