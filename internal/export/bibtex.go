package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ascsn/pubsly/internal/markup"
	"github.com/ascsn/pubsly/internal/reference"
)

var (
	nonLetters  = regexp.MustCompile(`[^a-zA-Z]`)
	lettersOnly = regexp.MustCompile(`^[a-zA-Z]+$`)
	lineBreaks  = regexp.MustCompile(`[\n\r]+`)
)

// Footer comments appended after the entries.
const (
	bibPresentationsNote = "% Note: Presentations are not included in BibTeX export as there is no standard entry type."
	bibCitationNote      = "% Citation counts are from Semantic Scholar and included in the annote field."
	bibTagsNote          = "% Tags are included in the keywords field."
)

// BibTeX renders publications as a bibliography file with unique cite
// keys, followed by explanatory comments.
func BibTeX(pubs []reference.Publication, opts Options) string {
	keys := make(map[string]bool, len(pubs))
	entries := make([]string, 0, len(pubs))
	for _, pub := range pubs {
		entries = append(entries, bibEntry(pub, uniqueKey(CiteKey(pub), keys)))
	}

	var b strings.Builder
	b.WriteString(strings.Join(entries, "\n"))
	if opts.Tag != "" {
		fmt.Fprintf(&b, "\n%% Export filtered by tag: %s\n", opts.Tag)
	}
	b.WriteString("\n" + bibPresentationsNote + "\n")
	b.WriteString(bibCitationNote + "\n")
	b.WriteString(bibTagsNote + "\n")
	return b.String()
}

// CiteKey derives the base key <Family><Year><Word> for pub, before
// collision handling.
func CiteKey(pub reference.Publication) string {
	family := "Anon"
	if len(pub.Authors) > 0 {
		if f := nonLetters.ReplaceAllString(familyName(pub.Authors[0]), ""); f != "" {
			family = f
		}
	}

	year := "ND"
	if pub.Year != 0 {
		year = fmt.Sprint(pub.Year)
	}

	return family + year + titleWord(pub.Title)
}

// familyName picks the surname used in cite keys.
func familyName(a reference.Author) string {
	if a.Family != "" {
		return a.Family
	}
	if i := strings.Index(a.Name, ","); i >= 0 {
		return a.Name[:i]
	}
	if i := strings.LastIndex(a.Name, " "); i >= 0 {
		return a.Name[i+1:]
	}
	return a.Name
}

// titleWord returns the first title word longer than three letters, else
// the first word, reduced to ASCII letters. The result is empty when that
// word has no letters; "Paper" stands in only for a missing first word.
func titleWord(title string) string {
	title = markup.StripTags(title)
	if title == "" {
		title = "Paper"
	}
	words := strings.Split(title, " ")
	word := words[0]
	for _, w := range words {
		if len(w) > 3 && lettersOnly.MatchString(w) {
			word = w
			break
		}
	}
	if word == "" {
		word = "Paper"
	}
	return nonLetters.ReplaceAllString(word, "")
}

// uniqueKey appends a, b, c, ... to key until it is unused, then claims it.
func uniqueKey(key string, used map[string]bool) string {
	candidate := key
	for n := 0; used[candidate]; n++ {
		candidate = key + letterSuffix(n)
	}
	used[candidate] = true
	return candidate
}

// letterSuffix maps 0, 1, ..., 25, 26, ... to a, b, ..., z, aa, ...
func letterSuffix(n int) string {
	s := ""
	for {
		s = string(rune('a'+n%26)) + s
		n = n/26 - 1
		if n < 0 {
			return s
		}
	}
}

// EntryType chooses the BibTeX entry type for pub.
func EntryType(pub reference.Publication) string {
	if pub.Kind == reference.KindArXiv {
		return "article"
	}
	source := strings.ToLower(pub.Source)
	switch {
	case containsAny(source, "journal", "transactions", "letters"):
		return "article"
	case containsAny(source, "proceedings", "conference", "symposium", "workshop"):
		return "inproceedings"
	default:
		return "misc"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type bibField struct {
	name, value string
}

func bibEntry(pub reference.Publication, key string) string {
	entryType := EntryType(pub)

	fields := []bibField{
		{"title", escapeLatex(markup.StripTags(pub.Title))},
		{"author", escapeLatex(formatAuthors(pub.Authors))},
	}
	if pub.Year != 0 {
		fields = append(fields, bibField{"year", fmt.Sprint(pub.Year)})
	}

	switch entryType {
	case "article":
		if pub.Kind == reference.KindArXiv {
			fields = append(fields, bibField{"journal", "arXiv preprint arXiv:" + pub.ID})
			if pub.URL != "" {
				fields = append(fields, bibField{"eprinttype", "arXiv"}, bibField{"eprint", pub.ID})
			}
		} else if pub.Source != "" {
			fields = append(fields, bibField{"journal", escapeLatex(pub.Source)})
		}
	case "inproceedings":
		if pub.Source != "" {
			fields = append(fields, bibField{"booktitle", escapeLatex(pub.Source)})
		}
	default:
		if pub.Source != "" {
			fields = append(fields, bibField{"howpublished", escapeLatex(pub.Source)})
		}
	}

	if pub.URL != "" {
		fields = append(fields, bibField{"url", pub.URL})
	}
	if pub.Kind == reference.KindDOI && pub.ID != "" {
		fields = append(fields, bibField{"doi", pub.ID})
	}
	if abstract := markup.StripTags(pub.Abstract); abstract != "" {
		fields = append(fields, bibField{"abstract", escapeLatex(lineBreaks.ReplaceAllString(abstract, " "))})
	}
	if len(pub.Tags) > 0 {
		fields = append(fields, bibField{"keywords", strings.Join(pub.Tags, ", ")})
	}
	if pub.CitationCount != nil {
		fields = append(fields, bibField{"annote", fmt.Sprintf("Cited by (Semantic Scholar): %d", *pub.CitationCount)})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", entryType, key)
	for i, f := range fields {
		sep := ","
		if i == len(fields)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  %-12s = {%s}%s\n", f.name, f.value, sep)
	}
	b.WriteString("}\n")
	return b.String()
}

// formatAuthors formats authors in BibTeX style: "Family, Given and ...".
// Authors with only a display name keep it; nameless ones become
// "Anonymous".
func formatAuthors(authors []reference.Author) string {
	formatted := make([]string, 0, len(authors))
	for _, a := range authors {
		switch {
		case a.Family != "" && a.Given != "":
			formatted = append(formatted, a.Family+", "+a.Given)
		case a.Name != "":
			formatted = append(formatted, a.Name)
		default:
			formatted = append(formatted, "Anonymous")
		}
	}
	return strings.Join(formatted, " and ")
}

// latexReplacer escapes characters that are special in LaTeX text. Braces
// are dropped: BibTeX counts them even when escaped, and one stray brace
// would unbalance the entry.
var latexReplacer = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", "",
	"}", "",
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

func escapeLatex(s string) string {
	return latexReplacer.Replace(s)
}
