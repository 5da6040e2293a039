package export

import (
	"fmt"
	"strings"

	"github.com/ascsn/pubsly/internal/markup"
	"github.com/ascsn/pubsly/internal/reference"
)

const separator = "---------------------"

// CitationSummary aggregates the citation counts of a publication set.
type CitationSummary struct {
	WithData  int
	Total     int
	MostCited *reference.Publication
}

// Average returns the mean citation count over publications with data.
func (s CitationSummary) Average() float64 {
	if s.WithData == 0 {
		return 0
	}
	return float64(s.Total) / float64(s.WithData)
}

// SummarizeCitations computes the summary. The most-cited publication is
// the first to reach the maximum.
func SummarizeCitations(pubs []reference.Publication) CitationSummary {
	var s CitationSummary
	for i := range pubs {
		n := pubs[i].CitationCount
		if n == nil {
			continue
		}
		s.WithData++
		s.Total += *n
		if s.MostCited == nil || *n > *s.MostCited.CitationCount {
			s.MostCited = &pubs[i]
		}
	}
	return s
}

// Text renders a human-readable report: header, citation summary, one
// block per publication, then presentations unless a tag filter is set.
func Text(pubs []reference.Publication, presentations []reference.Presentation, opts Options) string {
	appName := opts.AppName
	if appName == "" {
		appName = DefaultAppName
	}
	filtered := opts.Tag != ""

	var b strings.Builder
	fmt.Fprintf(&b, "%s Data Export\nGenerated: %s\n", appName, opts.Now.Format("1/2/2006, 3:04:05 PM"))
	if filtered {
		fmt.Fprintf(&b, "Filtering by Tag: %s\n", opts.Tag)
	}
	b.WriteString("\n")

	writeCitationSummary(&b, SummarizeCitations(pubs), filtered)

	filterNote := ""
	if filtered {
		filterNote = "(Filtered by tag: " + opts.Tag + ")"
	}
	fmt.Fprintf(&b, "=== PUBLICATIONS (%d) %s ===\n\n", len(pubs), filterNote)
	if len(pubs) == 0 {
		forTag := ""
		if filtered {
			forTag = "for this tag"
		}
		fmt.Fprintf(&b, "No publications to export %s.\n\n", forTag)
	}
	for i, pub := range pubs {
		writePublication(&b, i+1, pub)
	}

	if filtered {
		b.WriteString("\n=== PRESENTATIONS ===\n")
		b.WriteString("Presentations are not filtered by tags and are not included in this tagged export.\n")
		b.WriteString("To export presentations, clear the tag filter or use JSON export.\n\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\n=== PRESENTATIONS (%d) ===\n\n", len(presentations))
	if len(presentations) == 0 {
		b.WriteString("No presentations to export.\n\n")
	}
	for i, pres := range presentations {
		writePresentation(&b, i+1, pres)
	}
	return b.String()
}

func writeCitationSummary(b *strings.Builder, s CitationSummary, filtered bool) {
	scope, none := "all", "any"
	if filtered {
		scope, none = "filtered", "filtered"
	}

	fmt.Fprintf(b, "=== CITATION SUMMARY (for %s publications) ===\n", scope)
	if s.WithData > 0 {
		fmt.Fprintf(b, "Publications with citation data: %d\n", s.WithData)
		fmt.Fprintf(b, "Total citations: %d\n", s.Total)
		fmt.Fprintf(b, "Average citations per publication (with data): %.2f\n", s.Average())
		title := markup.StripTags(s.MostCited.Title)
		if title == "" {
			title = "N/A"
		}
		fmt.Fprintf(b, "Most cited: \"%s\" (%d citations)\n", title, *s.MostCited.CitationCount)
	} else {
		fmt.Fprintf(b, "No citation data available for %s publications.\n", none)
	}
	b.WriteString("(Citation data sourced from Semantic Scholar, may not be exhaustive)\n\n")
}

func writePublication(b *strings.Builder, n int, pub reference.Publication) {
	fmt.Fprintf(b, "Publication #%d\n", n)
	fmt.Fprintf(b, "Title: %s\n", markup.StripTags(pub.Title))
	fmt.Fprintf(b, "Authors: %s\n", plainAuthors(pub.Authors))
	fmt.Fprintf(b, "Year: %s\n", orNA(yearString(pub.Year)))
	fmt.Fprintf(b, "Source: %s\n", orNA(pub.Source))
	fmt.Fprintf(b, "Type: %s\n", pub.Kind)
	fmt.Fprintf(b, "ID: %s\n", pub.ID)
	if len(pub.Tags) > 0 {
		fmt.Fprintf(b, "Tags: %s\n", strings.Join(pub.Tags, ", "))
	}
	if pub.CitationCount != nil {
		fmt.Fprintf(b, "Citations (Semantic Scholar): %d\n", *pub.CitationCount)
	}
	if pub.URL != "" {
		fmt.Fprintf(b, "URL: %s\n", pub.URL)
	}
	if pub.Abstract != "" {
		fmt.Fprintf(b, "Abstract:\n%s\n", markup.StripTags(pub.Abstract))
	}
	b.WriteString(separator + "\n\n")
}

func writePresentation(b *strings.Builder, n int, pres reference.Presentation) {
	fmt.Fprintf(b, "Presentation #%d\n", n)
	fmt.Fprintf(b, "Title: %s\n", pres.Title)
	fmt.Fprintf(b, "Speaker: %s\n", pres.Speaker)
	fmt.Fprintf(b, "Date: %s\n", pres.Date)
	fmt.Fprintf(b, "Location: %s\n", pres.Location)
	if pres.Link != "" {
		fmt.Fprintf(b, "Link: %s\n", pres.Link)
	}
	if pres.FileName != "" {
		fmt.Fprintf(b, "File: %s (%s)\n", pres.FileName, orNA(pres.FileType))
	}
	b.WriteString(separator + "\n\n")
}

// plainAuthors joins display names with commas, or returns "N/A".
func plainAuthors(authors []reference.Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if name := a.DisplayName(); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "N/A"
	}
	return strings.Join(names, ", ")
}

func yearString(y int) string {
	if y == 0 {
		return ""
	}
	return fmt.Sprint(y)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
