package author

import (
	"regexp"
	"strings"

	"github.com/ascsn/pubsly/internal/reference"
)

// andSeparator splits BibTeX author lists.
var andSeparator = regexp.MustCompile(`(?i) and `)

// ParseName splits a single name into family and given parts.
//
// Supported formats:
//   - "Lovelace, Ada"      → family="Lovelace", given="Ada"
//   - "Ada King Lovelace"  → family="Lovelace", given="Ada King"
//   - "Lovelace"           → family="Lovelace"
//
// The display name is derived as "Given Family".
func ParseName(s string) reference.Author {
	s = strings.TrimSpace(s)
	var a reference.Author

	if idx := strings.Index(s, ","); idx >= 0 {
		a.Family = strings.TrimSpace(s[:idx])
		a.Given = strings.TrimSpace(s[idx+1:])
	} else if parts := strings.Fields(s); len(parts) > 0 {
		a.Family = parts[len(parts)-1]
		a.Given = strings.Join(parts[:len(parts)-1], " ")
	}

	return a.WithDisplayName()
}

// ParseList parses a BibTeX author field ("A and B and C"). Names that are
// empty after parsing are dropped.
func ParseList(s string) []reference.Author {
	var authors []reference.Author
	for _, part := range andSeparator.Split(s, -1) {
		a := ParseName(part)
		if a.Name == "" {
			continue
		}
		authors = append(authors, a)
	}
	return authors
}

// split returns the family and given names of a, parsing the display name
// when the structured parts are missing.
func split(a reference.Author) (family, given string) {
	if a.Family != "" {
		return a.Family, a.Given
	}
	p := ParseName(a.Name)
	return p.Family, p.Given
}
