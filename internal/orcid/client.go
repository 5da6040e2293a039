// Package orcid lists the works attached to an ORCID record.
package orcid

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/ascsn/pubsly/internal/identifier"
	"github.com/ascsn/pubsly/internal/markup"
	"github.com/ascsn/pubsly/internal/reference"
	"github.com/ascsn/pubsly/internal/upstream"
)

var errMalformed = errors.New("response is not valid JSON")

// arxivPrefix is the "arXiv:" label some records put in front of the id.
var arxivPrefix = regexp.MustCompile(`(?i)^\s*arxiv:\s*`)

const (
	// BaseURL is the ORCID public API root. The record id is appended.
	BaseURL = "https://pub.orcid.org/v3.0/"

	// DefaultTimeout bounds the works listing request.
	DefaultTimeout = 15 * time.Second

	// DefaultTitle and UnknownAuthor fill summaries that lack them.
	DefaultTitle  = "Title not found"
	UnknownAuthor = "Unknown Author"

	service = "orcid"
)

// Client reads ORCID works listings.
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

// NewClient creates a new ORCID client.
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

// Works returns one partial publication per work group in the record.
// An id that is not in XXXX-XXXX-XXXX-XXXX form fails with
// identifier.ErrInvalidORCID before any request is made. Any upstream
// failure is returned to the caller.
func (c *Client) Works(ctx context.Context, orcidID string) ([]reference.Partial, error) {
	orcidID = strings.TrimPrefix(strings.TrimSpace(orcidID), "https://orcid.org/")
	if err := identifier.ValidateORCID(orcidID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var buf bytes.Buffer
	err := requests.
		URL(c.baseURL+orcidID+"/works").
		Client(c.httpClient).
		Accept("application/json").
		ToBytesBuffer(&buf).
		Fetch(ctx)
	if err != nil {
		err = upstream.Classify(service, orcidID, err)
		c.logger.Error("works listing failed", "orcid", orcidID, "err", err)
		return nil, err
	}
	if !gjson.ValidBytes(buf.Bytes()) {
		return nil, upstream.Invalid(service, errMalformed)
	}

	return ParseWorks(buf.Bytes(), orcidID), nil
}

// ParseWorks maps an ORCID /works document to partial publications.
func ParseWorks(data []byte, orcidID string) []reference.Partial {
	var out []reference.Partial
	gjson.GetBytes(data, "group").ForEach(func(_, group gjson.Result) bool {
		summary := group.Get("work-summary.0")
		if !summary.Exists() {
			return true
		}
		out = append(out, mapSummary(group, summary, orcidID))
		return true
	})
	return out
}

func mapSummary(group, summary gjson.Result, orcidID string) reference.Partial {
	p := reference.Partial{
		Kind:  reference.KindOther,
		Title: strings.TrimSpace(markup.StripTags(summary.Get("title.title.value").String())),
		Year:  int(summary.Get("publication-date.year.value").Int()),
		URL:   summary.Get("url.value").String(),
	}
	if p.Title == "" {
		p.Title = DefaultTitle
	}

	extIDs := summary.Get("external-ids.external-id").Array()
	if v := externalID(extIDs, "doi"); v != "" {
		p.ID, p.Kind = v, reference.KindDOI
		if p.URL == "" {
			p.URL = "https://doi.org/" + v
		}
	} else if v := externalID(extIDs, "arxiv"); v != "" {
		v = arxivPrefix.ReplaceAllString(v, "")
		p.ID, p.Kind = v, reference.KindArXiv
		if p.URL == "" {
			p.URL = "https://arxiv.org/abs/" + v
		}
	}

	if p.ID == "" {
		discriminator := summary.Get("put-code").String()
		if discriminator == "" {
			discriminator = uuid.NewString()[:8]
		}
		p.ID = reference.ORCIDIDPrefix + orcidID + "-" + discriminator
	}
	p.ID = strings.ToLower(p.ID)

	p.Source = summary.Get("journal-title.value").String()
	if p.Source == "" {
		p.Source = summary.Get("type").String()
	}

	for _, contributor := range group.Get("contributors.contributor").Array() {
		name := contributor.Get("credit-name.value").String()
		if name == "" {
			name = UnknownAuthor
		}
		p.Authors = append(p.Authors, reference.Author{Name: name})
	}

	return p
}

// externalID returns the value of the first external id of type kind.
func externalID(ids []gjson.Result, kind string) string {
	for _, id := range ids {
		if id.Get("external-id-type").String() == kind {
			return id.Get("external-id-value").String()
		}
	}
	return ""
}
