// Package s2 provides a minimal Semantic Scholar Graph API client used to
// look up citation counts.
package s2

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"

	"github.com/ascsn/pubsly/internal/reference"
	"github.com/ascsn/pubsly/internal/upstream"
)

const (
	// BaseURL is the Graph API paper endpoint.
	BaseURL = "https://api.semanticscholar.org/graph/v1/paper/"

	// DefaultTimeout is the hard deadline for one citation lookup.
	DefaultTimeout = 8 * time.Second

	service = "s2"
)

// Client fetches citation counts.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
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

// WithAPIKey sets the API key sent as x-api-key. Anonymous access works
// with a lower rate limit.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout sets the lookup deadline.
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

// NewClient creates a new Semantic Scholar client.
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

// PaperID formats a registry id the way the Graph API expects it:
// DOI:<doi> or ARXIV:<id>. Returns "" for kinds S2 cannot resolve.
func PaperID(id string, kind reference.Kind) string {
	switch kind {
	case reference.KindDOI:
		return "DOI:" + id
	case reference.KindArXiv:
		return "ARXIV:" + id
	default:
		return ""
	}
}

// CitationCount returns the citation count for a DOI or arXiv id, or nil
// when it cannot be determined. Failures are logged, never returned: a
// missing count must not block the caller.
func (c *Client) CitationCount(ctx context.Context, id string, kind reference.Kind) *int {
	if id == "" {
		return nil
	}
	paperID := PaperID(id, kind)
	if paperID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var buf bytes.Buffer
	b := requests.
		URL(c.baseURL+url.PathEscape(paperID)).
		Client(c.httpClient).
		Param("fields", "citationCount").
		Accept("application/json").
		ToBytesBuffer(&buf)
	if c.apiKey != "" {
		b = b.Header("x-api-key", c.apiKey)
	}

	if err := b.Fetch(ctx); err != nil {
		err = upstream.Classify(service, paperID, err)
		switch {
		case upstream.IsNotFound(err):
			c.logger.Debug("paper not found", "paper", paperID)
		case upstream.IsTimeout(err):
			c.logger.Warn("citation lookup timed out", "paper", paperID)
		default:
			c.logger.Warn("citation lookup failed", "paper", paperID, "err", err)
		}
		return nil
	}

	v := gjson.GetBytes(buf.Bytes(), "citationCount")
	if v.Type != gjson.Number {
		c.logger.Debug("no citation count in response", "paper", paperID)
		return nil
	}
	return reference.IntPtr(int(v.Int()))
}
