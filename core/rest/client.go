package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client performs JSON requests against one remote system.
type Client struct {
	system  string
	baseURL string
	http    *http.Client
	header  http.Header
	user    string
	pass    string
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithHeader sets a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// WithBasicAuth authenticates every request with HTTP basic auth.
func WithBasicAuth(user, pass string) Option {
	return func(c *Client) {
		c.user = user
		c.pass = pass
	}
}

// WithLogger enables debug logging of requests.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for system rooted at baseURL.
func New(system, baseURL string, opts ...Option) *Client {
	c := &Client{
		system:  system,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		header:  http.Header{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// System returns the name used in errors.
func (c *Client) System() string {
	return c.system
}

// BaseURL returns the root all request paths are joined to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is encoded as JSON when non-nil.
	Body any
	// Expect lists the accepted statuses; empty means 200.
	Expect []int
}

// Do sends req and decodes the JSON response into out, if out is non-nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	endpoint := c.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}
	remoteErr := func(status int, body string, err error) *RemoteError {
		return &RemoteError{
			System:   c.system,
			Method:   req.Method,
			Endpoint: req.Path,
			Status:   status,
			Body:     body,
			Err:      err,
		}
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s request body: %w", c.system, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return remoteErr(0, "", err)
	}
	for k, v := range c.header {
		httpReq.Header[k] = v
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" {
		httpReq.SetBasicAuth(c.user, c.pass)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return remoteErr(0, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return remoteErr(resp.StatusCode, "", err)
	}

	c.logger.Debug("Remote call",
		zap.String("system", c.system),
		zap.String("method", req.Method),
		zap.String("endpoint", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	expect := req.Expect
	if len(expect) == 0 {
		expect = []int{http.StatusOK}
	}
	if !slices.Contains(expect, resp.StatusCode) {
		return remoteErr(resp.StatusCode, string(data), nil)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return remoteErr(resp.StatusCode, string(data), fmt.Errorf("decode response: %w", err))
	}
	return nil
}
