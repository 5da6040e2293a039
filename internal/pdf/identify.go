// Package pdf finds the DOI or arXiv id printed on the first pages of a
// paper's PDF.
package pdf

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ascsn/pubsly/internal/identifier"
)

// ScanPages is how many leading pages are searched. Identifiers are
// almost always on the first page.
const ScanPages = 3

// ErrNoIdentifier is returned when no DOI or arXiv stamp is found.
var ErrNoIdentifier = errors.New("no DOI or arXiv identifier found in PDF")

// arxivStamp matches the margin stamp arXiv adds to preprints, e.g.
// "arXiv:2101.00001v2 [nucl-th] 4 Jan 2021".
var arxivStamp = regexp.MustCompile(`(?i)\barXiv:\s*(\d{4}\.\d{4,5}|[a-z-]+(?:\.[A-Z]{2})?/\d{7})(?:v\d+)?`)

// Identify extracts the publication identifier from the PDF at path.
func Identify(path string) (identifier.Identifier, error) {
	text, err := ExtractText(path, ScanPages)
	if err != nil {
		return identifier.Identifier{}, err
	}
	id := IdentifyText(text)
	if !id.Recognized() {
		return id, ErrNoIdentifier
	}
	return id, nil
}

// IdentifyText finds an identifier in extracted PDF text. A DOI wins over
// an arXiv stamp because published versions carry both.
func IdentifyText(text string) identifier.Identifier {
	if doi := identifier.FindDOI(text); isValidDOI(doi) {
		return identifier.Identifier{Kind: identifier.DOI, Value: doi}
	}
	if m := arxivStamp.FindStringSubmatch(text); m != nil {
		return identifier.Identifier{Kind: identifier.ArXiv, Value: m[1]}
	}
	return identifier.Identifier{}
}

// ExtractText returns the plain text of the first maxPages pages. Pages
// that fail to decode are skipped.
func ExtractText(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var b strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// isValidDOI rejects matches too short to be a real DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash != -1 && slash < len(doi)-1
}
