// Package opensearch implements a client for the DHuS OpenSearch API served
// by Copernicus data hubs and their national mirrors.
package opensearch

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colhub/hubsync/internal/transport"
	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/logging"
)

// ProductSet is the result of a search: the server-reported total and the
// retrieved titles in response order.
type ProductSet struct {
	Count  int
	Titles []string
}

// Client queries one DHuS endpoint.
type Client struct {
	name     string
	baseURL  string
	http     *transport.Client
	pageSize int
	logger   *zerolog.Logger
}

// Option configures a Client.
type Option func(*options)

type options struct {
	timeout   time.Duration
	pageSize  int
	transport []transport.Option
	logger    *zerolog.Logger
}

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithPageSize overrides the number of rows requested per page.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithTransportOptions passes options through to the HTTP transport.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(o *options) { o.transport = append(o.transport, opts...) }
}

// WithLogger sets the logger used for per-page debug output.
func WithLogger(l *zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a client for the endpoint at apiURL using the given credentials.
func New(name, apiURL string, auth transport.Authenticator, opts ...Option) *Client {
	o := options{pageSize: constants.PageSize}
	for _, opt := range opts {
		opt(&o)
	}
	topts := append([]transport.Option{transport.WithTimeout(o.timeout)}, o.transport...)
	return &Client{
		name:     name,
		baseURL:  strings.TrimRight(apiURL, "/"),
		http:     transport.New(name, auth, topts...),
		pageSize: o.pageSize,
		logger:   logging.OrDefault(o.logger),
	}
}

// Name returns the endpoint name.
func (c *Client) Name() string {
	return c.name
}

// Search retrieves every product matching q, paging until the reported
// total is reached or a page comes back empty.
func (c *Client) Search(ctx context.Context, q Query) (*ProductSet, error) {
	query := q.String()
	set := &ProductSet{}

	for offset := 0; ; {
		page, err := c.page(ctx, query, c.pageSize, offset)
		if err != nil {
			return nil, err
		}
		set.Count = int(page.Feed.TotalResults)
		for _, e := range page.Feed.Entries {
			set.Titles = append(set.Titles, e.Title)
		}
		offset += len(page.Feed.Entries)

		c.logger.Debug().
			Str("endpoint", c.name).
			Int("offset", offset).
			Int("total", set.Count).
			Msg("fetched page")

		if len(page.Feed.Entries) == 0 || offset >= set.Count {
			break
		}
	}
	return set, nil
}

// Count returns the server-reported total for q without retrieving titles.
func (c *Client) Count(ctx context.Context, q Query) (int, error) {
	page, err := c.page(ctx, q.String(), 0, 0)
	if err != nil {
		return 0, err
	}
	return int(page.Feed.TotalResults), nil
}

// Verify reports whether the server-reported total for q equals retrieved.
func (c *Client) Verify(ctx context.Context, q Query, retrieved int) (bool, error) {
	n, err := c.Count(ctx, q)
	if err != nil {
		return false, err
	}
	return n == retrieved, nil
}

func (c *Client) page(ctx context.Context, query string, rows, start int) (*searchResponse, error) {
	v := url.Values{}
	v.Set("q", query)
	v.Set("rows", strconv.Itoa(rows))
	v.Set("start", strconv.Itoa(start))
	v.Set("format", "json")

	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/search?"+v.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
