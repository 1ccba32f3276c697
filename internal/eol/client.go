// Package eol provides a client for the Encyclopedia of Life search and
// pages APIs.
package eol

import (
	"context"
	"strconv"

	"github.com/llehouerou/tunesearch/internal/remote"
	"github.com/llehouerou/tunesearch/internal/search"
)

// DefaultBaseURL is the root of the EOL API.
const DefaultBaseURL = "https://eol.org/api"

const searchPath = "search/1.0.json"

var _ search.Fetcher[Result] = (*Client)(nil)

// Client queries the Encyclopedia of Life.
type Client struct {
	remote *remote.Client
}

// New creates a client rooted at baseURL; an empty baseURL means
// DefaultBaseURL.
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

// ParamsFor builds the search parameters for text.
func ParamsFor(text string) map[string]string {
	return map[string]string{"q": text}
}

// Fetch runs one search and returns its results.
func (c *Client) Fetch(ctx context.Context, params map[string]string) ([]Result, error) {
	page, err := c.SearchPage(ctx, params)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// SearchPage runs one search and keeps the paging metadata.
func (c *Client) SearchPage(ctx context.Context, params map[string]string) (*SearchPage, error) {
	body, err := c.remote.GetPath(ctx, searchPath, params)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, search.Cancelled()
	}
	return decodeSearch(ctx, body)
}

// Taxon fetches the detail page of a search result.
func (c *Client) Taxon(ctx context.Context, id int64) (*Taxon, error) {
	body, err := c.remote.GetPath(ctx, "pages/1.0/"+strconv.FormatInt(id, 10)+".json", map[string]string{
		"taxonomy":        "true",
		"images_per_page": "1",
		"language":        "en",
	})
	if err != nil {
		return nil, err
	}
	return DecodeTaxon(body)
}
