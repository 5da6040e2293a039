// Package reference defines the core domain types for research outputs.
package reference

import (
	"slices"
	"strings"
	"time"
)

// Kind classifies a publication by the registry its id belongs to.
type Kind string

const (
	KindDOI   Kind = "DOI"
	KindArXiv Kind = "arXiv"
	KindOther Kind = "Other"
)

// Synthetic id prefixes for imported records that lack a DOI or arXiv id.
const (
	BibTeXIDPrefix = "bibtex-"
	ORCIDIDPrefix  = "orcid-"
	ManualIDPrefix = "manual-"
)

// Publication represents a paper, preprint, or other written output.
type Publication struct {
	ID            string   `json:"id"` // DOI, arXiv id, or synthetic id
	Kind          Kind     `json:"type"`
	Title         string   `json:"title"` // Plain text, markup stripped
	Authors       []Author `json:"authors"`
	Year          int      `json:"year,omitempty"`
	Source        string   `json:"source,omitempty"` // Journal, conference, etc.
	Abstract      string   `json:"abstract,omitempty"`
	URL           string   `json:"url,omitempty"`
	Tags          []string `json:"tags,omitempty"`          // Lower-cased
	Timestamp     int64    `json:"timestamp"`               // Unix milliseconds
	CitationCount *int     `json:"citationCount,omitempty"` // nil = not yet fetched
}

// Partial is an incomplete publication record from a bulk import source
// (a BibTeX file or an ORCID works listing). Every field may be empty.
type Partial struct {
	ID            string
	Kind          Kind
	Title         string
	Authors       []Author
	Year          int
	Source        string
	Abstract      string
	URL           string
	Tags          []string
	CitationCount *int
}

// HasRegistryID reports whether the kind is one an external registry can
// resolve.
func (k Kind) HasRegistryID() bool {
	return k == KindDOI || k == KindArXiv
}

// IsTemporaryID reports whether id is a locally generated placeholder
// rather than a real DOI or arXiv id.
func IsTemporaryID(id string) bool {
	return id == "" ||
		strings.HasPrefix(id, BibTeXIDPrefix) ||
		strings.HasPrefix(id, ORCIDIDPrefix)
}

// HasGenuineID reports whether the partial carries a real DOI or arXiv id.
func (p Partial) HasGenuineID() bool {
	return p.Kind.HasRegistryID() && !IsTemporaryID(p.ID)
}

// SameID compares publication ids case-insensitively.
func SameID(a, b string) bool {
	return strings.EqualFold(a, b)
}

// HasTag reports whether the publication carries tag (case-insensitive).
func (p Publication) HasTag(tag string) bool {
	tag = strings.ToLower(tag)
	for _, t := range p.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of p.
func (p Publication) Clone() Publication {
	p.Authors = slices.Clone(p.Authors)
	p.Tags = slices.Clone(p.Tags)
	if p.CitationCount != nil {
		n := *p.CitationCount
		p.CitationCount = &n
	}
	return p
}

// Timestamp returns t as Unix milliseconds, the unit stored in snapshots.
func Timestamp(t time.Time) int64 {
	return t.UnixMilli()
}

// NormalizeTags lower-cases and trims tags, drops empties, and removes
// duplicates while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// UnionTags merges tag sets, keeping the order of first appearance.
func UnionTags(sets ...[]string) []string {
	var all []string
	for _, s := range sets {
		all = append(all, s...)
	}
	return NormalizeTags(all)
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
