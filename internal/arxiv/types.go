package arxiv

import (
	"strings"
	"time"

	"github.com/ascsn/pubsly/internal/identifier"
	"github.com/ascsn/pubsly/internal/markup"
	"github.com/ascsn/pubsly/internal/reference"
)

// XML namespaces used by the arXiv query API.
const (
	AtomNS  = "http://www.w3.org/2005/Atom"
	ArXivNS = "http://arxiv.org/schemas/atom"
)

// Default field values for entries that lack them.
const (
	DefaultTitle  = "Title not found from arXiv"
	DefaultAuthor = "Authors not found"
	DefaultSource = "arXiv"
)

// Feed is the Atom document returned by the query endpoint.
type Feed struct {
	Title   string  `xml:"http://www.w3.org/2005/Atom title"`
	Entries []Entry `xml:"http://www.w3.org/2005/Atom entry"`
}

// Entry is a single arXiv record.
type Entry struct {
	ID              string     `xml:"http://www.w3.org/2005/Atom id"`
	Title           string     `xml:"http://www.w3.org/2005/Atom title"`
	Summary         string     `xml:"http://www.w3.org/2005/Atom summary"`
	Published       string     `xml:"http://www.w3.org/2005/Atom published"`
	Authors         []Author   `xml:"http://www.w3.org/2005/Atom author"`
	Links           []Link     `xml:"http://www.w3.org/2005/Atom link"`
	Categories      []Category `xml:"http://www.w3.org/2005/Atom category"`
	PrimaryCategory *Category  `xml:"http://arxiv.org/schemas/atom primary_category"`
	DOI             string     `xml:"http://arxiv.org/schemas/atom doi"`
	JournalRef      string     `xml:"http://arxiv.org/schemas/atom journal_ref"`
}

// Author is an entry author.
type Author struct {
	Name string `xml:"http://www.w3.org/2005/Atom name"`
}

// Link is an Atom link element.
type Link struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// Category is an arXiv subject classification.
type Category struct {
	Term string `xml:"term,attr"`
}

// isError reports whether the entry is the API's in-band error record.
func (e Entry) isError() bool {
	return strings.Contains(e.ID, "/api/errors")
}

// LinkedDOI returns the DOI of the published version, from the arxiv:doi
// element or a link titled "doi". Returns "" when the entry has none.
func (e Entry) LinkedDOI() string {
	if doi := strings.TrimSpace(e.DOI); doi != "" {
		return doi
	}
	for _, l := range e.Links {
		if l.Title != "doi" || l.Href == "" {
			continue
		}
		if doi := identifier.FindDOI(l.Href); doi != "" {
			return doi
		}
	}
	return ""
}

// Publication builds a publication from the entry's own metadata. id is the
// version-less arXiv id that was requested.
func (e Entry) Publication(id string) reference.Publication {
	pub := reference.Publication{
		ID:       id,
		Kind:     reference.KindArXiv,
		Title:    markup.CollapseSpace(markup.StripTags(e.Title)),
		Abstract: markup.CleanAbstract(e.Summary),
		Source:   DefaultSource,
		URL:      strings.TrimSpace(e.ID),
	}
	if pub.Title == "" {
		pub.Title = DefaultTitle
	}
	if pub.URL == "" {
		pub.URL = "https://arxiv.org/abs/" + id
	}

	for _, a := range e.Authors {
		if name := markup.CollapseSpace(a.Name); name != "" {
			pub.Authors = append(pub.Authors, reference.Author{Name: name})
		}
	}
	if len(pub.Authors) == 0 {
		pub.Authors = []reference.Author{{Name: DefaultAuthor}}
	}

	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		pub.Year = t.Year()
	}

	var terms []string
	if e.PrimaryCategory != nil && e.PrimaryCategory.Term != "" {
		pub.Source = e.PrimaryCategory.Term
		terms = append(terms, e.PrimaryCategory.Term)
	}
	for _, c := range e.Categories {
		terms = append(terms, c.Term)
	}
	if tags := reference.NormalizeTags(terms); len(tags) > 0 {
		pub.Tags = tags
	}

	return pub
}
