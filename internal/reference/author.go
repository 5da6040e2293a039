package reference

import "strings"

// Author represents a publication author. Authors are stored per publication
// and carry no identity of their own.
type Author struct {
	Given    string `json:"given,omitempty"`    // Given name(s)
	Family   string `json:"family,omitempty"`   // Family name
	Name     string `json:"name,omitempty"`     // Display name
	Sequence string `json:"sequence,omitempty"` // "first", "additional" (Crossref)
	ORCID    string `json:"ORCID,omitempty"`    // External author identifier
}

// DisplayName returns Name, or "Given Family" when Name is empty.
func (a Author) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return strings.TrimSpace(a.Given + " " + a.Family)
}

// WithDisplayName returns a copy of a whose Name is populated.
func (a Author) WithDisplayName() Author {
	a.Name = a.DisplayName()
	return a
}
