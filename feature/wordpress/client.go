package wordpress

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"livestream-sync/core/rest"

	"go.uber.org/zap"
)

// Page is the editable state of a WordPress page.
type Page struct {
	ID    int
	Title string
	// Content is the raw, unrendered page body.
	Content string
}

type rawField struct {
	Raw string `json:"raw"`
}

type apiPage struct {
	ID      int      `json:"id"`
	Title   rawField `json:"title"`
	Content rawField `json:"content"`
}

// Client talks to the WordPress REST API.
type Client struct {
	api    *rest.Client
	logger *zap.Logger
}

// New creates a client for cfg.
func New(cfg Config, logger *zap.Logger, opts ...rest.Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	base := []rest.Option{
		rest.WithHTTPClient(&http.Client{Timeout: timeout}),
		rest.WithBasicAuth(cfg.User, cfg.AppPassword),
		rest.WithLogger(logger),
	}
	return &Client{
		api:    rest.New("wordpress", cfg.APIURL(), append(base, opts...)...),
		logger: logger,
	}
}

// GetPage fetches a page in edit context so the raw content is returned.
func (c *Client) GetPage(ctx context.Context, id int) (Page, error) {
	var p apiPage
	req := rest.Request{
		Method: http.MethodGet,
		Path:   pagePath(id),
		Query:  url.Values{"context": {"edit"}},
	}
	if err := c.api.Do(ctx, req, &p); err != nil {
		return Page{}, err
	}
	return Page{ID: p.ID, Title: p.Title.Raw, Content: p.Content.Raw}, nil
}

// UpdatePage replaces the content of a page.
func (c *Client) UpdatePage(ctx context.Context, id int, content string) error {
	c.logger.Info("Updating page", zap.Int("page_id", id))
	return c.api.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   pagePath(id),
		Body:   map[string]string{"content": content},
	}, nil)
}

func pagePath(id int) string {
	return "/pages/" + strconv.Itoa(id)
}
