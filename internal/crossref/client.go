// Package crossref provides a client for the Crossref works API, the
// registry used to resolve DOIs to publication metadata.
package crossref

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/charmbracelet/log"

	"github.com/ascsn/pubsly/internal/reference"
	"github.com/ascsn/pubsly/internal/upstream"
)

const (
	// BaseURL is the Crossref works endpoint. A DOI is appended directly.
	BaseURL = "https://api.crossref.org/works/"

	// DefaultTimeout bounds a single works lookup.
	DefaultTimeout = 15 * time.Second

	service = "crossref"
)

// Client looks up DOIs in Crossref.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	userAgent  string
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

// WithUserAgent sets the User-Agent header. Crossref routes requests that
// include a mailto contact to its polite pool.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new Crossref client.
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

// Work fetches the record for doi and maps it to a Publication.
// Returns an error wrapping upstream.ErrNotFound when Crossref has no
// record, or an *upstream.APIError for any other failure. Both are logged;
// not-found at warn level.
func (c *Client) Work(ctx context.Context, doi string) (reference.Publication, error) {
	pub, err := c.fetch(ctx, doi)
	if err != nil {
		upstream.LogFailure(c.logger, log.WarnLevel, err, "DOI lookup failed", "doi", doi)
		return reference.Publication{}, err
	}
	return pub, nil
}

func (c *Client) fetch(ctx context.Context, doi string) (reference.Publication, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp WorkResponse
	b := requests.
		URL(c.baseURL + url.PathEscape(doi)).
		Client(c.httpClient).
		Accept("application/json").
		ToJSON(&resp)
	if c.userAgent != "" {
		b = b.UserAgent(c.userAgent)
	}

	if err := b.Fetch(ctx); err != nil {
		return reference.Publication{}, upstream.Classify(service, doi, err)
	}

	if resp.Status != "ok" || resp.Message == nil {
		return reference.Publication{}, upstream.Invalid(service,
			fmt.Errorf("unexpected response structure for %s (status %q)", doi, resp.Status))
	}

	return MapWork(*resp.Message, doi), nil
}
