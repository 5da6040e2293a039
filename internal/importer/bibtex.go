// Package importer reads publication records from bibliography files and
// structured snapshot exports.
package importer

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/ascsn/pubsly/internal/author"
	"github.com/ascsn/pubsly/internal/markup"
	"github.com/ascsn/pubsly/internal/reference"
)

// DefaultTitle is used for entries without a title field.
const DefaultTitle = "Title not found"

var (
	entryStartPattern = regexp.MustCompile(`@(\w+)\s*\{\s*([^,]+),`)
	entryEndPattern   = regexp.MustCompile(`\n\s*\}`)
	fieldNamePattern  = regexp.MustCompile(`\b(\w+)\s*=\s*`)
	keywordSeparator  = regexp.MustCompile(`[,;]`)
	leadingDigits     = regexp.MustCompile(`^\d+`)

	braceRemover = strings.NewReplacer("{", "", "}", "")
)

// delimiters are stripped from both ends of every field value.
const delimiters = "{}\" \t\r\n"

// Entry is one raw BibTeX entry.
type Entry struct {
	Type   string            // Lower-cased entry type (article, book, ...)
	Key    string            // Cite key
	Fields map[string]string // Lower-cased field name to cleaned value
	Text   string            // Raw field text, used for synthetic ids
}

// ParseBibTeX parses bibliography text into partial publication records in
// file order. It is a pure function of its input: records without a DOI
// or eprint get a synthetic id derived from the entry's content.
func ParseBibTeX(text string) []reference.Partial {
	entries := ScanEntries(text)
	partials := make([]reference.Partial, 0, len(entries))
	for i, e := range entries {
		partials = append(partials, e.Partial(i))
	}
	return partials
}

// ScanEntries finds the entry blocks in text. An entry runs from
// "@type{key," to the first line-leading "}" that is followed only by
// whitespace and then another "@" or the end of input.
func ScanEntries(text string) []Entry {
	var entries []Entry
	pos := 0
	for pos < len(text) {
		loc := entryStartPattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		bodyStart := pos + loc[1]

		bodyEnd, next, ok := findEntryEnd(text, bodyStart)
		if !ok {
			// No valid terminator; retry from just past this "@".
			pos = start + 1
			continue
		}

		body := text[bodyStart:bodyEnd]
		entries = append(entries, Entry{
			Type:   strings.ToLower(text[pos+loc[2] : pos+loc[3]]),
			Key:    strings.TrimSpace(text[pos+loc[4] : pos+loc[5]]),
			Fields: parseFields(body),
			Text:   body,
		})
		pos = next
	}
	return entries
}

// findEntryEnd returns the end of the entry body starting at from, and the
// offset just past the closing brace.
func findEntryEnd(text string, from int) (bodyEnd, next int, ok bool) {
	for _, m := range entryEndPattern.FindAllStringIndex(text[from:], -1) {
		rest := strings.TrimLeft(text[from+m[1]:], " \t\r\n\f\v")
		if rest == "" || rest[0] == '@' {
			return from + m[0], from + m[1], true
		}
	}
	return 0, 0, false
}

// parseFields extracts name = value pairs. Values may be brace-delimited
// (nesting allowed), quote-delimited, or a bare token.
func parseFields(body string) map[string]string {
	fields := make(map[string]string)
	pos := 0
	for pos < len(body) {
		loc := fieldNamePattern.FindStringSubmatchIndex(body[pos:])
		if loc == nil {
			break
		}
		name := strings.ToLower(body[pos+loc[2] : pos+loc[3]])
		valueStart := pos + loc[1]

		raw, end := scanValue(body, valueStart)
		fields[name] = cleanValue(raw)
		if end <= pos {
			end = pos + 1
		}
		pos = end
	}
	return fields
}

// scanValue reads one field value starting at i and returns it with the
// offset just past it.
func scanValue(s string, i int) (string, int) {
	if i >= len(s) {
		return "", i
	}
	switch s[i] {
	case '{':
		depth := 0
		for j := i; j < len(s); j++ {
			switch s[j] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return s[i+1 : j], j + 1
				}
			}
		}
		return s[i+1:], len(s)
	case '"':
		if j := strings.IndexByte(s[i+1:], '"'); j >= 0 {
			return s[i+1 : i+1+j], i + j + 2
		}
		return s[i+1:], len(s)
	default:
		j := i
		for j < len(s) && !isSpace(s[j]) {
			j++
		}
		return strings.TrimRight(s[i:j], ","), j
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// cleanValue strips outer delimiters and whitespace, then the grouping
// braces BibTeX uses to protect capitalization.
func cleanValue(v string) string {
	v = strings.Trim(v, delimiters)
	return strings.TrimSpace(braceRemover.Replace(v))
}

// Partial maps the entry to a partial publication. ordinal is the entry's
// position in its file and only feeds the synthetic id.
func (e Entry) Partial(ordinal int) reference.Partial {
	f := e.Fields
	p := reference.Partial{
		Title:    strings.TrimSpace(markup.StripTags(f["title"])),
		Source:   firstNonEmpty(f["journal"], f["booktitle"], f["publisher"]),
		Abstract: strings.TrimSpace(markup.StripTags(f["abstract"])),
	}
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if f["author"] != "" {
		p.Authors = author.ParseList(f["author"])
	}
	if m := leadingDigits.FindString(f["year"]); m != "" {
		p.Year, _ = strconv.Atoi(m)
	}

	switch {
	case f["doi"] != "":
		doi := f["doi"]
		p.ID = strings.ToLower(doi)
		p.Kind = reference.KindDOI
		p.URL = "https://doi.org/" + doi
	case f["eprint"] != "":
		eprint := f["eprint"]
		if strings.HasPrefix(strings.ToLower(eprint), "arxiv:") {
			eprint = eprint[len("arxiv:"):]
		}
		p.ID = strings.ToLower(eprint)
		p.Kind = reference.KindArXiv
		p.URL = "https://arxiv.org/abs/" + eprint
	default:
		p.ID = reference.BibTeXIDPrefix + e.digest(ordinal)
		p.Kind = reference.KindOther
		p.Source = e.defaultSource(p.Source)
	}
	if p.URL == "" {
		p.URL = f["url"]
	}

	if kw := f["keywords"]; kw != "" {
		if tags := reference.NormalizeTags(keywordSeparator.Split(kw, -1)); len(tags) > 0 {
			p.Tags = tags
		}
	}

	return p
}

// defaultSource picks a venue for records that no registry can enrich.
func (e Entry) defaultSource(source string) string {
	f := e.Fields
	switch e.Type {
	case "article":
		return firstNonEmpty(f["journal"], source, "Journal")
	case "inproceedings", "conference":
		return firstNonEmpty(f["booktitle"], source, "Conference")
	case "book":
		return firstNonEmpty(f["publisher"], source, "Book")
	default:
		return firstNonEmpty(source, e.Type)
	}
}

// digest returns a short content hash identifying the entry.
func (e Entry) digest(ordinal int) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(e.Key))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(ordinal)))
	h.Write([]byte{0})
	h.Write([]byte(e.Text))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
