// Package enrich merges partial publication records from bulk imports
// with registry metadata and the existing collection.
package enrich

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ascsn/pubsly/internal/fetch"
	"github.com/ascsn/pubsly/internal/identifier"
	"github.com/ascsn/pubsly/internal/reference"
)

// DefaultCitationDelay separates consecutive citation lookups in a
// refresh run.
const DefaultCitationDelay = 750 * time.Millisecond

// Resolver fetches full metadata for a known identifier.
type Resolver interface {
	Lookup(ctx context.Context, id identifier.Identifier) fetch.Result
}

// Engine enriches partial records. It never fails: when registries are
// unreachable it degrades to the partial data.
type Engine struct {
	resolver      Resolver
	citations     fetch.CitationCounter
	now           func() time.Time
	citationDelay time.Duration
	logger        *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithCitationDelay sets the pause between citation lookups in
// RefreshCitations.
func WithCitationDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.citationDelay = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an Engine.
func NewEngine(resolver Resolver, citations fetch.CitationCounter, opts ...Option) *Engine {
	e := &Engine{
		resolver:      resolver,
		citations:     citations,
		now:           time.Now,
		citationDelay: DefaultCitationDelay,
		logger:        log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns the best full publication for p:
//  1. a temporary-id record matching an existing DOI/arXiv entry by title
//     and year becomes that entry, with tags merged;
//  2. a genuine DOI/arXiv record is re-fetched from its registry;
//  3. otherwise the record is built from its own fields, with a citation
//     count looked up when it has a genuine registry id.
func (e *Engine) Enrich(ctx context.Context, p reference.Partial, existing []reference.Publication) reference.Publication {
	ts := reference.Timestamp(e.now())

	if reference.IsTemporaryID(p.ID) {
		if match, ok := findRegistryMatch(p, existing); ok {
			e.logger.Debug("merged with existing entry", "partial", p.ID, "existing", match.ID)
			return mergeExisting(match, p, ts)
		}
	}

	if p.HasGenuineID() {
		res := e.resolver.Lookup(ctx, identifier.Identifier{Kind: identifierKind(p.Kind), Value: p.ID})
		if res.OK() {
			return mergeFetched(res.Publication, p, ts)
		}
		e.logger.Debug("enrichment lookup failed, using partial data", "id", p.ID, "status", res.Status, "err", res.Err)
	}

	var count *int
	if p.HasGenuineID() && p.CitationCount == nil {
		count = e.citations.CitationCount(ctx, p.ID, p.Kind)
	}
	return fromPartial(p, count, ts)
}

// Manual builds a publication from user-entered fields. Nothing is
// fetched.
func (e *Engine) Manual(p reference.Partial) reference.Publication {
	return fromPartial(p, nil, reference.Timestamp(e.now()))
}

// IsDuplicate reports whether p already exists in the collection. Records
// with temporary ids match on title and year; all others match on id,
// case-insensitively.
func IsDuplicate(p reference.Partial, existing []reference.Publication) bool {
	if reference.IsTemporaryID(p.ID) {
		title := normalizedTitle(p.Title)
		for _, pub := range existing {
			if normalizedTitle(pub.Title) == title && pub.Year == p.Year {
				return true
			}
		}
		return false
	}
	for _, pub := range existing {
		if reference.SameID(pub.ID, p.ID) {
			return true
		}
	}
	return false
}

// findRegistryMatch finds a DOI/arXiv entry with the same title and year.
func findRegistryMatch(p reference.Partial, existing []reference.Publication) (reference.Publication, bool) {
	title := normalizedTitle(p.Title)
	for _, pub := range existing {
		if !pub.Kind.HasRegistryID() {
			continue
		}
		if normalizedTitle(pub.Title) == title && pub.Year == p.Year {
			return pub, true
		}
	}
	return reference.Publication{}, false
}

// AsPartial converts a full record back to a partial, for duplicate checks
// on enriched results.
func AsPartial(pub reference.Publication) reference.Partial {
	return reference.Partial{
		ID:            pub.ID,
		Kind:          pub.Kind,
		Title:         pub.Title,
		Authors:       pub.Authors,
		Year:          pub.Year,
		Source:        pub.Source,
		Abstract:      pub.Abstract,
		URL:           pub.URL,
		Tags:          pub.Tags,
		CitationCount: pub.CitationCount,
	}
}

func identifierKind(k reference.Kind) identifier.Kind {
	switch k {
	case reference.KindDOI:
		return identifier.DOI
	case reference.KindArXiv:
		return identifier.ArXiv
	}
	return identifier.Unrecognized
}

func formatMillis(ms int64) string {
	return strconv.FormatInt(ms, 10)
}
