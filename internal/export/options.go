// Package export renders the collection as structured JSON, plain text,
// or a BibTeX bibliography.
package export

import (
	"regexp"
	"strings"
	"time"
)

// DefaultAppName heads the plain-text export.
const DefaultAppName = "Research Products Portal"

// Options control the text and bibliography exports.
type Options struct {
	AppName string    // Heading for the text export
	Tag     string    // Active tag filter; empty for an unfiltered export
	Now     time.Time // Generation time printed in the text export
}

// Format is an export file format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatText   Format = "txt"
	FormatBibTeX Format = "bib"
)

var (
	spaceRun      = regexp.MustCompile(`\s+`)
	spaceSlashRun = regexp.MustCompile(`[\s/]+`)
)

// FileName returns the download name for an export. The JSON export is
// never filtered, so tag is ignored for it.
func FileName(format Format, tag string) string {
	switch format {
	case FormatText:
		return "pubsly_data" + tagSuffix(spaceRun, tag) + ".txt"
	case FormatBibTeX:
		return "research_publications" + tagSuffix(spaceSlashRun, tag) + ".bib"
	default:
		return "pubsly_data.json"
	}
}

func tagSuffix(sep *regexp.Regexp, tag string) string {
	if tag == "" {
		return ""
	}
	return "_tag_" + strings.ToLower(sep.ReplaceAllString(tag, "_"))
}
