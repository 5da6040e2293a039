package crossref

// WorkResponse is the envelope returned by GET /works/{doi}.
type WorkResponse struct {
	Status  string `json:"status"`
	Message *Work  `json:"message"`
}

// Work is the subset of a Crossref work record that maps onto a publication.
type Work struct {
	Title          []string  `json:"title"`
	Author         []Author  `json:"author"`
	Created        *DateInfo `json:"created"`
	Issued         *DateInfo `json:"issued"`
	ContainerTitle []string  `json:"container-title"`
	Abstract       string    `json:"abstract"`
	DOI            string    `json:"DOI"`
	URL            string    `json:"URL"`
	Type           string    `json:"type"` // e.g. journal-article
	Subject        []string  `json:"subject"`
}

// Author is a Crossref contributor. Organizations carry only Name.
type Author struct {
	Given    string `json:"given"`
	Family   string `json:"family"`
	Name     string `json:"name"`
	Sequence string `json:"sequence"`
	ORCID    string `json:"ORCID"`
}

// DateInfo holds Crossref date-parts: [[year, month, day]].
type DateInfo struct {
	DateParts [][]int `json:"date-parts"`
}

// Year returns the first year in the date-parts, or 0.
func (d *DateInfo) Year() int {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}
