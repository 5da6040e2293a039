package crossref

import (
	"strings"

	"github.com/ascsn/pubsly/internal/markup"
	"github.com/ascsn/pubsly/internal/reference"
)

// DefaultTitle is used when a work has no usable title.
const DefaultTitle = "Title not found"

// MapWork converts a Crossref work to a Publication. requestedDOI is used
// when the record does not echo its own DOI. The timestamp and citation
// count are left for the caller.
func MapWork(work Work, requestedDOI string) reference.Publication {
	id := work.DOI
	if id == "" {
		id = requestedDOI
	}

	pub := reference.Publication{
		ID:       id,
		Kind:     reference.KindDOI,
		Title:    DefaultTitle,
		Authors:  mapAuthors(work.Author),
		Abstract: markup.CleanAbstract(work.Abstract),
		URL:      work.URL,
	}

	if len(work.Title) > 0 {
		if t := markup.StripTags(work.Title[0]); t != "" {
			pub.Title = t
		}
	}

	pub.Year = work.Created.Year()
	if pub.Year == 0 {
		pub.Year = work.Issued.Year()
	}

	if len(work.ContainerTitle) > 0 && work.ContainerTitle[0] != "" {
		pub.Source = work.ContainerTitle[0]
	} else {
		pub.Source = work.Type
	}

	if pub.URL == "" {
		pub.URL = "https://doi.org/" + requestedDOI
	}

	if tags := reference.NormalizeTags(work.Subject); len(tags) > 0 {
		pub.Tags = tags
	}

	return pub
}

// mapAuthors converts Crossref contributors, dropping any without a
// resolvable display name.
func mapAuthors(in []Author) []reference.Author {
	authors := make([]reference.Author, 0, len(in))
	for _, a := range in {
		name := a.Name
		if name == "" {
			name = strings.TrimSpace(a.Given + " " + a.Family)
		}
		if name == "" {
			continue
		}
		authors = append(authors, reference.Author{
			Given:    a.Given,
			Family:   a.Family,
			Name:     name,
			Sequence: a.Sequence,
			ORCID:    a.ORCID,
		})
	}
	return authors
}
