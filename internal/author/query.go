// Package author parses author names from bibliography text and matches
// author search queries against publication authors.
package author

import (
	"strings"

	"github.com/ascsn/pubsly/internal/reference"
)

// Query represents a parsed author search query.
type Query struct {
	First string // First name (may be empty for last-name-only queries)
	Last  string // Last name (required)
}

// ParseQuery parses an author search string into a structured Query.
//
// Supported formats:
//   - "Yu"           → last="Yu" (single word = last name only)
//   - "Timothy Yu"   → first="Timothy", last="Yu"
//   - "Yu, Timothy"  → first="Timothy", last="Yu"
//
// Names are trimmed but case is preserved (matching is case-insensitive).
func ParseQuery(input string) Query {
	a := ParseName(input)
	return Query{First: a.Given, Last: a.Family}
}

// IsZero reports whether the query is empty.
func (q Query) IsZero() bool {
	return q.Last == ""
}

// Matches checks if the query matches a given author.
//
// Last names must match exactly, first names by prefix, both
// case-insensitively. "Tim Yu" matches "Timothy C Yu" while "Yu" does not
// match "Yujia Chan". Authors recorded only by display name are split on
// the last space.
func (q Query) Matches(a reference.Author) bool {
	family, given := split(a)
	if !strings.EqualFold(q.Last, family) {
		return false
	}
	if q.First == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(given), strings.ToLower(q.First))
}

// MatchesAny checks if the query matches any author in the list.
func (q Query) MatchesAny(authors []reference.Author) bool {
	for _, a := range authors {
		if q.Matches(a) {
			return true
		}
	}
	return false
}

// AllMatch checks if all queries match at least one author each.
func AllMatch(queries []Query, authors []reference.Author) bool {
	for _, q := range queries {
		if !q.MatchesAny(authors) {
			return false
		}
	}
	return true
}
