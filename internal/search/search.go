// Package search lists merged pull requests through the GitHub search API.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"go.uber.org/zap"

	twerrors "github.com/twirer/twirer/internal/errors"
)

// DefaultPerPage is the largest page size the search API accepts.
const DefaultPerPage = 100

// Record is one search hit.
type Record struct {
	Title string
	URL   string
}

// Listing is the result of a search: the total reported by the API and
// the records in arrival order.
type Listing struct {
	Total   int
	Records []Record
}

// Options configures a Client.
type Options struct {
	Token      string
	PerPage    int
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client pages through issue searches.
type Client struct {
	gh      *github.Client
	perPage int
	log     *zap.Logger
}

// New creates a Client. An empty BaseURL uses api.github.com.
func New(opts Options) (*Client, error) {
	gh := github.NewClient(opts.HTTPClient)
	if opts.Token != "" {
		gh = gh.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parsing GitHub API URL: %w", err)
		}
		gh.BaseURL = u
	}

	perPage := opts.PerPage
	if perPage <= 0 || perPage > DefaultPerPage {
		perPage = DefaultPerPage
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{gh: gh, perPage: perPage, log: log}, nil
}

// Merged runs query and collects every page. Failures are not retried.
func (c *Client) Merged(ctx context.Context, query string) (*Listing, error) {
	listing := &Listing{}
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: c.perPage}}

	for {
		res, resp, err := c.gh.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, twerrors.Collaborator("github search", err)
		}
		if opts.Page == 0 {
			listing.Total = res.GetTotal()
		}
		for _, issue := range res.Issues {
			listing.Records = append(listing.Records, Record{Title: issue.GetTitle(), URL: issue.GetHTMLURL()})
		}
		c.log.Debug("fetched search page",
			zap.Int("page", opts.Page),
			zap.Int("items", len(res.Issues)),
			zap.Int("total", listing.Total))

		if resp.NextPage == 0 {
			return listing, nil
		}
		opts.Page = resp.NextPage
	}
}
