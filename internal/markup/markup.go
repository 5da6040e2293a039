// Package markup removes HTML, XML and JATS markup that registries embed in
// titles and abstracts.
package markup

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	jatsTagPattern  = regexp.MustCompile(`</?jats:[^>]*>`)
	anyTagPattern   = regexp.MustCompile(`<[^>]+>`)
	spaceRunPattern = regexp.MustCompile(`\s\s+`)
	looseTagPattern = regexp.MustCompile(`<[^>]*>?`)
)

// StripTags returns the text content of s with all tags removed and
// character references decoded, the way a browser reports textContent.
func StripTags(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return b.String()
			}
			// Tokenizer gave up; fall back to a plain pattern strip.
			return looseTagPattern.ReplaceAllString(s, "")
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// CleanAbstract strips JATS and other inline tags from an abstract and
// collapses runs of whitespace. An abstract that is empty after cleaning
// yields "".
func CleanAbstract(s string) string {
	s = jatsTagPattern.ReplaceAllString(s, "")
	s = anyTagPattern.ReplaceAllString(s, "")
	return CollapseSpace(s)
}

// CollapseSpace replaces every run of two or more whitespace characters
// with a single space and trims the result.
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRunPattern.ReplaceAllString(s, " "))
}
