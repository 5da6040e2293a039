// Package fetch resolves a user-supplied identifier to full publication
// metadata by consulting the DOI and arXiv registries and the citation
// service.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ascsn/pubsly/internal/arxiv"
	"github.com/ascsn/pubsly/internal/identifier"
	"github.com/ascsn/pubsly/internal/reference"
	"github.com/ascsn/pubsly/internal/upstream"
)

// ErrUnrecognized is returned for input that is neither a DOI nor an
// arXiv id.
var ErrUnrecognized = errors.New("identifier not recognized as DOI or arXiv")

// Status tags the outcome of a lookup.
type Status int

const (
	NotFound Status = iota
	Found
	Failed
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome of Resolve. Publication is set only when Status is
// Found; Err explains NotFound and Failed.
type Result struct {
	Status      Status
	Publication reference.Publication
	Err         error
}

// OK reports whether metadata was found.
func (r Result) OK() bool {
	return r.Status == Found
}

// WorkFetcher looks up a DOI.
type WorkFetcher interface {
	Work(ctx context.Context, doi string) (reference.Publication, error)
}

// EntryFetcher looks up an arXiv id.
type EntryFetcher interface {
	Entry(ctx context.Context, id string) (arxiv.Entry, error)
}

// CitationCounter looks up citation counts. A nil return means unknown.
type CitationCounter interface {
	CitationCount(ctx context.Context, id string, kind reference.Kind) *int
}

// Resolver combines the registries behind a single lookup.
type Resolver struct {
	works     WorkFetcher
	entries   EntryFetcher
	citations CitationCounter
	now       func() time.Time
	logger    *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock sets the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a Resolver.
func NewResolver(works WorkFetcher, entries EntryFetcher, citations CitationCounter, opts ...Option) *Resolver {
	r := &Resolver{
		works:     works,
		entries:   entries,
		citations: citations,
		now:       time.Now,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve parses input and looks it up. See Lookup.
func (r *Resolver) Resolve(ctx context.Context, input string) Result {
	id := identifier.Parse(input)
	if !id.Recognized() {
		r.logger.Warn("identifier not recognized", "input", input)
		return Result{Status: NotFound, Err: fmt.Errorf("%q: %w", input, ErrUnrecognized)}
	}
	return r.Lookup(ctx, id)
}

// Lookup fetches metadata for a parsed identifier and attaches its
// citation count, looked up by the id the registry returned. An arXiv entry that links to a published DOI is resolved
// through the DOI registry when possible; arXiv's own metadata is the
// fallback.
func (r *Resolver) Lookup(ctx context.Context, id identifier.Identifier) Result {
	var (
		pub reference.Publication
		err error
	)

	switch id.Kind {
	case identifier.DOI:
		pub, err = r.works.Work(ctx, id.Value)
		if err == nil {
			pub.CitationCount = r.citations.CitationCount(ctx, pub.ID, reference.KindDOI)
		}
	case identifier.ArXiv:
		pub, err = r.lookupArXiv(ctx, id.Value)
	default:
		return Result{Status: NotFound, Err: ErrUnrecognized}
	}

	if err != nil {
		if upstream.IsNotFound(err) {
			return Result{Status: NotFound, Err: err}
		}
		return Result{Status: Failed, Err: err}
	}

	pub.Timestamp = reference.Timestamp(r.now())
	return Result{Status: Found, Publication: pub}
}

func (r *Resolver) lookupArXiv(ctx context.Context, id string) (reference.Publication, error) {
	entry, err := r.entries.Entry(ctx, id)
	if err != nil {
		return reference.Publication{}, err
	}

	if doi := entry.LinkedDOI(); doi != "" {
		r.logger.Info("arXiv entry links to DOI", "arxiv", id, "doi", doi)
		pub, err := r.works.Work(ctx, doi)
		if err == nil {
			pub.CitationCount = r.citations.CitationCount(ctx, pub.ID, reference.KindDOI)
			return pub, nil
		}
		r.logger.Warn("linked DOI lookup failed, using arXiv metadata", "arxiv", id, "doi", doi)
	}

	pub := entry.Publication(id)
	pub.CitationCount = r.citations.CitationCount(ctx, id, reference.KindArXiv)
	return pub, nil
}
