// Package analytics aggregates collection statistics: totals, citation
// figures, author and tag counts, and per-year series.
package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ascsn/pubsly/internal/collection"
	"github.com/ascsn/pubsly/internal/reference"
)

// TopTagLimit is how many tags TopTags lists.
const TopTagLimit = 3

// TagCount is a tag and the number of publications carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// YearValue is one point of a per-year series.
type YearValue struct {
	Year  int `json:"year"`
	Value int `json:"value"`
}

// MostCited identifies the most-cited publication.
type MostCited struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Citations int    `json:"citations"`
}

// Stats is the analytics of one (possibly tag-filtered) view.
type Stats struct {
	Tag                 string      `json:"tag,omitempty"`
	TotalPublications   int         `json:"total_publications"`
	TotalPresentations  int         `json:"total_presentations"`
	WithCitationData    int         `json:"with_citation_data"`
	TotalCitations      int         `json:"total_citations"`
	AverageCitations    *float64    `json:"average_citations"` // nil when no publication has data
	MostCited           *MostCited  `json:"most_cited,omitempty"`
	UniqueAuthors       int         `json:"unique_authors"`
	TopTags             []TagCount  `json:"top_tags"`
	PublicationsPerYear []YearValue `json:"publications_per_year"`
	CitationsPerYear    []YearValue `json:"citations_per_year"`
	AvailableTags       []string    `json:"available_tags"`
}

// Compute builds Stats for the publications carrying tag (all of them when
// tag is empty). Presentations are never filtered.
func Compute(snap reference.Snapshot, tag string) Stats {
	pubs := collection.FilterByTag(snap.Publications, tag)

	s := Stats{
		Tag:                tag,
		TotalPublications:  len(pubs),
		TotalPresentations: len(snap.Presentations),
		AvailableTags:      collection.AllTags(snap.Publications),
	}
	if s.AvailableTags == nil {
		s.AvailableTags = []string{}
	}

	authors := map[string]bool{}
	tagCounts := map[string]int{}
	var tagOrder []string
	perYear := map[int]int{}
	citesPerYear := map[int]int{}

	for _, p := range pubs {
		if n := p.CitationCount; n != nil {
			s.WithCitationData++
			s.TotalCitations += *n
			if s.MostCited == nil || *n > s.MostCited.Citations {
				s.MostCited = &MostCited{ID: p.ID, Title: p.Title, Citations: *n}
			}
			if p.Year != 0 {
				citesPerYear[p.Year] += *n
			}
		}
		for _, a := range p.Authors {
			if name := a.DisplayName(); name != "" {
				authors[name] = true
			}
		}
		for _, t := range p.Tags {
			if tagCounts[t] == 0 {
				tagOrder = append(tagOrder, t)
			}
			tagCounts[t]++
		}
		if p.Year != 0 {
			perYear[p.Year]++
		}
	}

	if s.WithCitationData > 0 {
		avg := float64(s.TotalCitations) / float64(s.WithCitationData)
		s.AverageCitations = &avg
	}
	s.UniqueAuthors = len(authors)
	s.TopTags = topTags(tagOrder, tagCounts, TopTagLimit)
	s.PublicationsPerYear = series(perYear)
	s.CitationsPerYear = series(citesPerYear)
	return s
}

// topTags orders tags by count, descending. Ties keep first-seen order.
func topTags(order []string, counts map[string]int, limit int) []TagCount {
	out := make([]TagCount, 0, len(order))
	for _, t := range order {
		out = append(out, TagCount{Tag: t, Count: counts[t]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func series(m map[int]int) []YearValue {
	out := make([]YearValue, 0, len(m))
	for y, v := range m {
		out = append(out, YearValue{Year: y, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Year < out[j].Year
	})
	return out
}

// AverageString formats the average citation count, or "N/A".
func (s Stats) AverageString() string {
	if s.AverageCitations == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *s.AverageCitations)
}

// TopTagsString renders the top tags as "tag (n), ...", or "N/A".
func (s Stats) TopTagsString() string {
	if len(s.TopTags) == 0 {
		return "N/A"
	}
	parts := make([]string, len(s.TopTags))
	for i, tc := range s.TopTags {
		parts[i] = fmt.Sprintf("%s (%d)", tc.Tag, tc.Count)
	}
	return strings.Join(parts, ", ")
}
