// Package identifier classifies free-text publication identifiers as DOIs or
// arXiv ids and validates ORCID author identifiers.
package identifier

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ascsn/pubsly/internal/reference"
)

// Kind is the classification of a parsed identifier.
type Kind string

const (
	DOI          Kind = "DOI"
	ArXiv        Kind = "arXiv"
	Unrecognized Kind = ""
)

var (
	// doiPattern matches 10.<4-9 digits>/<suffix> anywhere in the text.
	doiPattern = regexp.MustCompile(`(?i)\b(10\.\d{4,9}/[-._;()/:A-Z0-9]+)\b`)

	// arxivURLPattern matches arxiv.org/abs/<id> and arxiv.org/pdf/<id>.
	arxivURLPattern = regexp.MustCompile(`(?i)arxiv\.org/(abs|pdf)/([^#?\s]+)`)

	// arxivIDPattern matches new-style (YYMM.NNNNN) and old-style
	// (category/YYMMNNN) ids and must cover the whole input.
	arxivIDPattern = regexp.MustCompile(`(?i)^(?:\d{4}\.\d{4,5}(?:v\d+)?|[a-z-]+(?:\.[A-Z]{2})?/\d{7}(?:v\d+)?)$`)

	versionSuffix = regexp.MustCompile(`v\d+$`)

	orcidPattern = regexp.MustCompile(`(?i)^(\d{4}-){3}\d{3}[\dX]$`)
)

// ErrInvalidORCID is returned for author identifiers that are not of the
// form XXXX-XXXX-XXXX-XXXX.
var ErrInvalidORCID = errors.New("invalid ORCID ID format, expected XXXX-XXXX-XXXX-XXXX")

// Identifier is a classified identifier in canonical form.
type Identifier struct {
	Kind  Kind
	Value string
}

// Recognized reports whether the input was a DOI or an arXiv id.
func (id Identifier) Recognized() bool {
	return id.Kind != Unrecognized
}

// PublicationKind maps the identifier kind to the publication kind stored
// in the collection.
func (id Identifier) PublicationKind() reference.Kind {
	switch id.Kind {
	case DOI:
		return reference.KindDOI
	case ArXiv:
		return reference.KindArXiv
	default:
		return reference.KindOther
	}
}

func (id Identifier) String() string {
	if !id.Recognized() {
		return "unrecognized"
	}
	return fmt.Sprintf("%s:%s", id.Kind, id.Value)
}

// Parse classifies s. DOIs are found anywhere in the text; arXiv ids are
// taken from arxiv.org abs/pdf URLs or must make up the whole trimmed
// string. Version suffixes are removed from arXiv ids.
func Parse(s string) Identifier {
	if m := doiPattern.FindStringSubmatch(s); m != nil {
		return Identifier{Kind: DOI, Value: m[1]}
	}
	if id, ok := ParseArXiv(s); ok {
		return Identifier{Kind: ArXiv, Value: id}
	}
	return Identifier{}
}

// ParseArXiv extracts a canonical arXiv id from a URL or a bare id.
func ParseArXiv(s string) (string, bool) {
	if m := arxivURLPattern.FindStringSubmatch(s); m != nil && m[2] != "" {
		id := strings.TrimSuffix(m[2], ".pdf")
		return versionSuffix.ReplaceAllString(id, ""), true
	}

	trimmed := strings.TrimSpace(s)
	if arxivIDPattern.MatchString(trimmed) {
		return versionSuffix.ReplaceAllString(trimmed, ""), true
	}
	return "", false
}

// FindDOI returns the first DOI embedded in text, or "".
func FindDOI(text string) string {
	if m := doiPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ValidateORCID checks the format of an ORCID iD.
func ValidateORCID(id string) error {
	if !orcidPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidORCID, id)
	}
	return nil
}

// NormalizeDOI normalizes a DOI for comparison.
// Removes common prefixes like "https://doi.org/" and lowercases.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}
