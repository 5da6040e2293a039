// Package arxiv provides a client for the arXiv query API.
package arxiv

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/charmbracelet/log"

	"github.com/ascsn/pubsly/internal/upstream"
)

const (
	// BaseURL is the arXiv Atom query endpoint.
	BaseURL = "https://export.arxiv.org/api/query"

	// DefaultTimeout bounds a single query.
	DefaultTimeout = 15 * time.Second

	service = "arxiv"
)

// Client queries arXiv by id.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     *log.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new arXiv client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    BaseURL,
		timeout:    DefaultTimeout,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithPrefix(service)
	return c
}

// Entry fetches the record for a version-less arXiv id. A feed with no
// entries, an in-band API error, or an unparseable document is reported as
// upstream.ErrNotFound.
func (c *Client) Entry(ctx context.Context, id string) (Entry, error) {
	e, err := c.fetch(ctx, id)
	if err != nil {
		upstream.LogFailure(c.logger, log.WarnLevel, err, "arXiv lookup failed", "id", id)
		return Entry{}, err
	}
	return e, nil
}

func (c *Client) fetch(ctx context.Context, id string) (Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var buf bytes.Buffer
	err := requests.
		URL(c.baseURL).
		Client(c.httpClient).
		Param("id_list", id).
		Param("max_results", "1").
		Accept("application/atom+xml").
		ToBytesBuffer(&buf).
		Fetch(ctx)
	if err != nil {
		return Entry{}, upstream.Classify(service, id, err)
	}

	var feed Feed
	if err := xml.Unmarshal(buf.Bytes(), &feed); err != nil {
		c.logger.Debug("unparseable feed", "id", id, "err", err)
		return Entry{}, fmt.Errorf("%w (malformed feed: %v)", upstream.NotFound(service, id), err)
	}

	if len(feed.Entries) == 0 {
		if strings.Contains(strings.ToLower(feed.Title), "error") {
			c.logger.Debug("feed reported an error", "id", id, "title", feed.Title)
		}
		return Entry{}, upstream.NotFound(service, id)
	}

	e := feed.Entries[0]
	if e.isError() {
		c.logger.Debug("entry reported an error", "id", id, "summary", strings.TrimSpace(e.Summary))
		return Entry{}, upstream.NotFound(service, id)
	}
	if strings.TrimSpace(e.ID) == "" && strings.TrimSpace(e.Title) == "" {
		return Entry{}, upstream.NotFound(service, id)
	}
	return e, nil
}
