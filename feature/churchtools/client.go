package churchtools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"livestream-sync/core/event"
	"livestream-sync/core/rest"
	"livestream-sync/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	factsPath    = "/facts"
	servicesPath = "/services"
)

// Client talks to the ChurchTools REST API.
type Client struct {
	api      *rest.Client
	cfg      Config
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time

	mu         sync.RWMutex
	masterdata map[string]map[int]string
	sf         singleflight.Group
}

// New creates a client for cfg. Dates of the event window are computed in
// location.
func New(cfg Config, location *time.Location, logger *zap.Logger, opts ...rest.Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	base := []rest.Option{
		rest.WithHTTPClient(&http.Client{Timeout: timeout}),
		rest.WithHeader("Authorization", "Login "+cfg.Token),
		rest.WithLogger(logger),
	}
	return &Client{
		api:        rest.New("churchtools", cfg.APIURL(), append(base, opts...)...),
		cfg:        cfg,
		location:   location,
		logger:     logger,
		now:        time.Now,
		masterdata: make(map[string]map[int]string),
	}
}

// UpcomingEvents loads the events from today up to the configured number
// of days ahead, canceled ones included. Events with unparseable dates
// are logged and skipped.
func (c *Client) UpcomingEvents(ctx context.Context) ([]*event.Event, error) {
	today := c.now().In(c.location)
	query := url.Values{
		"from":     {today.Format(time.DateOnly)},
		"to":       {today.AddDate(0, 0, c.cfg.DaysToLoad).Format(time.DateOnly)},
		"canceled": {"true"},
		"include":  {"eventServices"},
	}

	var resp envelope[[]apiEvent]
	if err := c.api.Do(ctx, rest.Request{Method: http.MethodGet, Path: "/events", Query: query}, &resp); err != nil {
		return nil, err
	}

	speakerService := 0
	if c.cfg.SpeakerService != "" {
		services, err := c.loadMasterData(ctx, servicesPath)
		if err != nil {
			return nil, err
		}
		for id, name := range services {
			if name == c.cfg.SpeakerService {
				speakerService = id
				break
			}
		}
		if speakerService == 0 {
			c.logger.Warn("Speaker service not found", zap.String("service", c.cfg.SpeakerService))
		}
	}

	events := make([]*event.Event, 0, len(resp.Data))
	for _, raw := range resp.Data {
		ev, err := c.toEvent(raw, speakerService)
		if err != nil {
			c.logger.Warn("Skipping event with malformed data", zap.Int("event_id", raw.ID), zap.Error(err))
			continue
		}
		events = append(events, ev)
	}
	c.logger.Debug("Fetched events", zap.Int("count", len(events)))
	return events, nil
}

func (c *Client) toEvent(raw apiEvent, speakerService int) (*event.Event, error) {
	start, err := parseDate("startDate", raw.StartDate)
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", raw.ID, err)
	}
	end, err := parseDate("endDate", raw.EndDate)
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", raw.ID, err)
	}

	ev := &event.Event{
		ID:            raw.ID,
		CategoryID:    utils.ToInt(raw.Calendar.DomainIdentifier),
		AppointmentID: utils.ToInt(raw.AppointmentID),
		StartTime:     start,
		EndTime:       end,
		Title:         raw.Name,
		Note:          raw.Note,
		Canceled:      raw.IsCanceled,
	}

	// first match wins
	for _, f := range raw.EventFiles {
		switch {
		case f.Title == c.cfg.StreamLinkName && ev.StreamLink == nil:
			ev.StreamLink = f.link()
		case f.Title == c.cfg.PostLinkName && ev.PostLink == nil:
			ev.PostLink = f.link()
		case c.cfg.ThumbnailName != "" && f.Title == c.cfg.ThumbnailName && ev.ThumbnailOverride == nil:
			ev.ThumbnailOverride = f.link()
		}
	}

	if speakerService != 0 {
		for _, s := range raw.EventServices {
			if s.ServiceID == speakerService && s.Name != "" {
				ev.Speaker = s.Name
				break
			}
		}
	}
	return ev, nil
}

// Facts returns the facts of an event keyed by fact name.
func (c *Client) Facts(ctx context.Context, eventID int) (map[string]string, error) {
	names, err := c.loadMasterData(ctx, factsPath)
	if err != nil {
		return nil, err
	}

	var resp envelope[[]apiFact]
	path := fmt.Sprintf("/events/%d/facts", eventID)
	if err := c.api.Do(ctx, rest.Request{Method: http.MethodGet, Path: path}, &resp); err != nil {
		return nil, err
	}

	facts := make(map[string]string, len(resp.Data))
	for _, f := range resp.Data {
		name, ok := names[f.FactID]
		if !ok {
			c.logger.Debug("Unknown fact id", zap.Int("event_id", eventID), zap.Int("fact_id", f.FactID))
			continue
		}
		facts[name] = utils.ToString(f.Value)
	}
	return facts, nil
}

// loadMasterData returns the id to name mapping of a master data endpoint.
// Each endpoint is fetched at most once per client.
func (c *Client) loadMasterData(ctx context.Context, path string) (map[int]string, error) {
	c.mu.RLock()
	m, ok := c.masterdata[path]
	c.mu.RUnlock()
	if ok {
		return m, nil
	}

	v, err, _ := c.sf.Do(path, func() (any, error) {
		c.mu.RLock()
		m, ok := c.masterdata[path]
		c.mu.RUnlock()
		if ok {
			return m, nil
		}

		var resp envelope[[]apiMasterData]
		if err := c.api.Do(ctx, rest.Request{Method: http.MethodGet, Path: path}, &resp); err != nil {
			return nil, err
		}
		m = make(map[int]string, len(resp.Data))
		for _, d := range resp.Data {
			m[d.ID] = d.Name
		}

		c.mu.Lock()
		c.masterdata[path] = m
		c.mu.Unlock()
		c.logger.Debug("Cached master data", zap.String("endpoint", path), zap.Int("count", len(m)))
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[int]string), nil
}

// AttachLink attaches a link named name to the event.
func (c *Client) AttachLink(ctx context.Context, eventID int, name, link string) (*event.ExternalLink, error) {
	var resp envelope[apiFile]
	req := rest.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/files/service/%d/link", eventID),
		Body:   map[string]string{"name": name, "url": link},
		Expect: []int{http.StatusCreated},
	}
	if err := c.api.Do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &event.ExternalLink{
		ID:          utils.ToInt(resp.Data.DomainID),
		Kind:        event.LinkKindLink,
		DisplayName: resp.Data.Name,
		URL:         resp.Data.FileURL,
	}, nil
}

// DeleteLink removes an attachment.
func (c *Client) DeleteLink(ctx context.Context, linkID int) error {
	return c.api.Do(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/files/%d", linkID),
		Expect: []int{http.StatusNoContent},
	}, nil)
}

// CreatePost creates a post and returns its id.
func (c *Client) CreatePost(ctx context.Context, spec event.PostSpec) (int, error) {
	var resp envelope[apiPost]
	req := rest.Request{
		Method: http.MethodPost,
		Path:   "/posts",
		Body:   newPostBody(spec),
		Expect: []int{http.StatusCreated},
	}
	if err := c.api.Do(ctx, req, &resp); err != nil {
		return 0, err
	}
	if resp.Data.ID == 0 {
		return 0, &event.DataShapeError{What: "created post", Value: "", Reason: "response carries no id"}
	}
	return resp.Data.ID, nil
}

// GetPost fetches a post.
func (c *Client) GetPost(ctx context.Context, postID int) (event.Post, error) {
	var resp envelope[apiPost]
	if err := c.api.Do(ctx, rest.Request{Method: http.MethodGet, Path: postPath(postID)}, &resp); err != nil {
		return event.Post{}, err
	}
	return resp.Data.toPost()
}

// UpdatePost sends the fields set in patch.
func (c *Client) UpdatePost(ctx context.Context, postID int, patch event.PostPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	return c.api.Do(ctx, rest.Request{
		Method: http.MethodPatch,
		Path:   postPath(postID),
		Body:   patchBody(patch),
	}, nil)
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, postID int) error {
	return c.api.Do(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   postPath(postID),
		Expect: []int{http.StatusOK, http.StatusNoContent},
	}, nil)
}

// PostURL returns the web URL of a post.
func (c *Client) PostURL(postID int) string {
	return c.cfg.SiteURL() + "/posts/" + strconv.Itoa(postID)
}

func postPath(id int) string {
	return "/posts/" + strconv.Itoa(id)
}
