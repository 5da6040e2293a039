// Package main provides the pubsly CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// logLevelFlag overrides the configured log level when set
	logLevelFlag string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pubsly",
	Short: "Track research publications and presentations",
	Long: `pubsly keeps a local collection of research outputs.

Core features:
  - Add publications by DOI, arXiv id, or PDF, with metadata from
    Crossref and arXiv and citation counts from Semantic Scholar
  - Record talks, posters, and seminars
  - Import from BibTeX files, ORCID records, or a previous JSON export
  - Export as JSON, plain text, or BibTeX, optionally filtered by tag
  - Aggregate analytics over the collection

The collection is stored as a single JSON document (or a SQLite key-value
table). All commands output JSON by default; use --human for terminal text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	rootCmd.Version = Version
}
