// Package itunes provides a client for the iTunes Search API.
package itunes

import (
	"context"
	"strconv"

	"github.com/llehouerou/tunesearch/internal/remote"
	"github.com/llehouerou/tunesearch/internal/search"
)

// DefaultBaseURL is the iTunes Search API endpoint.
const DefaultBaseURL = "https://itunes.apple.com/search"

// Compile-time check that Client can drive a search.Controller.
var _ search.Fetcher[Item] = (*Client)(nil)

// Client searches the iTunes Store.
type Client struct {
	remote *remote.Client
}

// New creates a client for baseURL; an empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...remote.Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	rc, err := remote.New(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{remote: rc}, nil
}

// Fetch runs one search with the given query-string parameters.
func (c *Client) Fetch(ctx context.Context, params map[string]string) ([]Item, error) {
	body, err := c.remote.Get(ctx, params)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, search.Cancelled()
	}
	return decode(ctx, body)
}

// Search is a convenience wrapper building the parameters from p.
func (c *Client) Search(ctx context.Context, term string, p Params) ([]Item, error) {
	return c.Fetch(ctx, p.For(term))
}

// Params holds the store filters sent with every term.
type Params struct {
	Country string // two-letter store code, e.g. "us"
	Media   string // "music", "movie", "podcast", ... or "all"
	Entity  string // result type relative to Media, e.g. "song", "album"
	Limit   int    // 1-200; 0 lets the store decide (50)
}

// DefaultParams searches US songs, 25 at a time.
func DefaultParams() Params {
	return Params{Country: "us", Media: "music", Entity: "song", Limit: 25}
}

// For builds the query-string parameters for term. Empty filters are
// omitted so the store applies its own defaults.
func (p Params) For(term string) map[string]string {
	params := map[string]string{"term": term}
	if p.Country != "" {
		params["country"] = p.Country
	}
	if p.Media != "" {
		params["media"] = p.Media
	}
	if p.Entity != "" {
		params["entity"] = p.Entity
	}
	if p.Limit > 0 {
		params["limit"] = strconv.Itoa(p.Limit)
	}
	return params
}
