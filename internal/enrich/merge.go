package enrich

import (
	"strings"

	"github.com/ascsn/pubsly/internal/markup"
	"github.com/ascsn/pubsly/internal/reference"
)

// Title used when no source provides one.
const UntitledPublication = "Untitled Publication"

// Field precedence, highest first: an existing complete record, freshly
// fetched metadata, the partial input, a default.

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstAuthors(lists ...[]reference.Author) []reference.Author {
	for _, l := range lists {
		if len(l) > 0 {
			out := make([]reference.Author, len(l))
			copy(out, l)
			return out
		}
	}
	return []reference.Author{}
}

func firstCount(vals ...*int) *int {
	for _, v := range vals {
		if v != nil {
			return reference.IntPtr(*v)
		}
	}
	return nil
}

func cleanTitle(s string) string {
	return strings.TrimSpace(markup.StripTags(s))
}

// normalizedTitle is the form compared by the title+year heuristic.
func normalizedTitle(s string) string {
	return strings.ToLower(cleanTitle(s))
}

// mergeExisting folds a partial into the existing record it duplicates.
func mergeExisting(existing reference.Publication, p reference.Partial, ts int64) reference.Publication {
	return reference.Publication{
		ID:            existing.ID,
		Kind:          existing.Kind,
		Title:         firstString(cleanTitle(existing.Title), cleanTitle(p.Title), UntitledPublication),
		Authors:       firstAuthors(existing.Authors, p.Authors),
		Year:          firstInt(existing.Year, p.Year),
		Source:        firstString(existing.Source, p.Source),
		Abstract:      firstString(existing.Abstract, p.Abstract),
		URL:           firstString(existing.URL, p.URL),
		Tags:          reference.UnionTags(existing.Tags, p.Tags),
		Timestamp:     ts,
		CitationCount: firstCount(existing.CitationCount, p.CitationCount),
	}
}

// mergeFetched overlays registry metadata on a partial. Registry values
// win; the partial fills whatever the registry left empty.
func mergeFetched(fetched reference.Publication, p reference.Partial, ts int64) reference.Publication {
	return reference.Publication{
		ID:            fetched.ID,
		Kind:          fetched.Kind,
		Title:         firstString(cleanTitle(fetched.Title), cleanTitle(p.Title), UntitledPublication),
		Authors:       firstAuthors(fetched.Authors, p.Authors),
		Year:          firstInt(fetched.Year, p.Year),
		Source:        firstString(fetched.Source, p.Source),
		Abstract:      firstString(fetched.Abstract, strings.TrimSpace(markup.StripTags(p.Abstract))),
		URL:           firstString(fetched.URL, p.URL),
		Tags:          reference.UnionTags(fetched.Tags, p.Tags),
		Timestamp:     ts,
		CitationCount: firstCount(fetched.CitationCount, p.CitationCount),
	}
}

// fromPartial builds a record from the partial alone.
func fromPartial(p reference.Partial, citations *int, ts int64) reference.Publication {
	id := p.ID
	if id == "" {
		id = reference.ManualIDPrefix + formatMillis(ts)
	}
	kind := p.Kind
	if kind == "" {
		kind = reference.KindOther
	}
	return reference.Publication{
		ID:            id,
		Kind:          kind,
		Title:         firstString(cleanTitle(p.Title), UntitledPublication),
		Authors:       firstAuthors(p.Authors),
		Year:          p.Year,
		Source:        p.Source,
		Abstract:      strings.TrimSpace(markup.StripTags(p.Abstract)),
		URL:           p.URL,
		Tags:          reference.UnionTags(p.Tags),
		Timestamp:     ts,
		CitationCount: firstCount(p.CitationCount, citations),
	}
}
