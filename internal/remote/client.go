// Package remote performs the single HTTP GET behind every search and maps
// every failure onto the search error taxonomy.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/llehouerou/tunesearch/internal/search"
)

const (
	defaultUserAgent = "tunesearch/0.1 (https://github.com/llehouerou/tunesearch)"
	defaultTimeout   = 15 * time.Second

	// MaxBodySize caps how much of a response body is read.
	MaxBodySize = 8 << 20
)

// Client issues GET requests against a fixed scheme/host/path.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for rawBaseURL, which must be an absolute http or
// https URL.
func New(rawBaseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(rawBaseURL)
	if err != nil {
		return nil, search.InvalidQuery(fmt.Sprintf("base url %q: %v", rawBaseURL, err))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, search.InvalidQuery(fmt.Sprintf("base url %q: need absolute http(s) url", rawBaseURL))
	}
	u.RawQuery = ""
	u.Fragment = ""

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the endpoint requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// BuildURL appends the percent-encoded params to the base URL, joined with
// path when path is not empty. Keys are emitted in sorted order.
func (c *Client) BuildURL(path string, params map[string]string) (string, error) {
	values := url.Values{}
	for k, v := range params {
		if err := validateParam(k, v); err != nil {
			return "", err
		}
		values.Set(k, v)
	}

	u := *c.baseURL
	if path != "" {
		if err := validateValue("path", path); err != nil {
			return "", err
		}
		u = *u.JoinPath(path)
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

func validateParam(key, value string) error {
	if strings.TrimSpace(key) == "" {
		return search.InvalidQuery("empty parameter name")
	}
	if err := validateValue("parameter name", key); err != nil {
		return err
	}
	return validateValue(fmt.Sprintf("parameter %q", key), value)
}

func validateValue(what, s string) error {
	if !utf8.ValidString(s) {
		return search.InvalidQuery(what + " is not valid UTF-8")
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return search.InvalidQuery(fmt.Sprintf("%s contains control character %U", what, r))
		}
	}
	return nil
}

// Get fetches the base URL with params.
func (c *Client) Get(ctx context.Context, params map[string]string) ([]byte, error) {
	return c.GetPath(ctx, "", params)
}

// GetPath fetches path (relative to the base URL) with params. It issues
// exactly one request and never retries. A cancelled ctx yields
// search.Cancelled, not a transport error.
func (c *Client) GetPath(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	reqURL, err := c.BuildURL(path, params)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, classify(ctx, ctx.Err())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, search.InvalidQuery(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", "url", reqURL, "error", err)
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		c.log.Debug("unexpected status", "url", reqURL, "status", resp.StatusCode)
		return nil, search.BadStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, classify(ctx, err)
	}
	if ctx.Err() != nil {
		return nil, classify(ctx, ctx.Err())
	}
	if len(body) > MaxBodySize {
		return nil, search.DecodeFailure("response too large")
	}

	c.log.Debug("request done", "url", reqURL, "bytes", len(body), "took", time.Since(start))
	return body, nil
}

// classify maps a request or read error onto the taxonomy.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return search.Cancelled()
	}
	return search.TransportFailure(err)
}
