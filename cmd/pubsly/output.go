package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ascsn/pubsly/internal/reference"
)

// Title truncation lengths by context
const (
	ListTitleMaxLen   = 60 // Used in list command output
	ImportTitleMaxLen = 60 // Used in import command output
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// outputResult writes v as JSON, or calls human when --human is set.
func outputResult(v interface{}, human func()) {
	if humanOutput {
		human()
		return
	}
	if err := outputJSON(v); err != nil {
		exitWithError(ExitError, "writing output: %v", err)
	}
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitWithErr exits with the code exitCodeFor assigns to err.
func exitWithErr(err error, context string) {
	exitWithError(exitCodeFor(err), "%s: %v", context, err)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// heading renders a section title for --human output.
func heading(s string) string {
	return headingStyle.Render(s)
}

// label renders a field label for --human output.
func label(s string) string {
	return labelStyle.Render(s)
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// formatAuthorsShort formats the first n author display names, adding
// "et al." when more exist.
func formatAuthorsShort(authors []reference.Author, n int) string {
	if len(authors) == 0 {
		return "N/A"
	}
	var names []string
	for i, a := range authors {
		if i >= n {
			break
		}
		names = append(names, a.DisplayName())
	}
	s := strings.Join(names, ", ")
	if len(authors) > n {
		s += " et al."
	}
	return s
}

// printPublicationLine prints a one-line publication summary.
func printPublicationLine(p reference.Publication) {
	year := "----"
	if p.Year != 0 {
		year = fmt.Sprint(p.Year)
	}
	fmt.Printf("%s  %s  %s\n", year, p.ID, truncateString(p.Title, ListTitleMaxLen))
	fmt.Printf("      %s", formatAuthorsShort(p.Authors, 3))
	if len(p.Tags) > 0 {
		fmt.Printf("  [%s]", strings.Join(p.Tags, ", "))
	}
	if p.CitationCount != nil {
		fmt.Printf("  cited by %d", *p.CitationCount)
	}
	fmt.Println()
}

// plural formats a count with a noun, adding "s" unless n is 1.
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
