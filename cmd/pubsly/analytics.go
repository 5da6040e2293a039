package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ascsn/pubsly/internal/analytics"
)

var analyticsTag string

func init() {
	analyticsCmd.Flags().StringVar(&analyticsTag, "tag", "", "Restrict publication figures to this tag")
	rootCmd.AddCommand(analyticsCmd)
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show collection statistics",
	Long: `Show totals, citation figures, top tags, and per-year series.

With --tag only publications carrying the tag are counted; the
presentation total always covers the whole collection.`,
	Args: cobra.NoArgs,
	RunE: runAnalytics,
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	store, blobs := mustOpenCollection(cfg, logger)
	defer blobs.Close()

	stats := analytics.Compute(store.Snapshot(), analyticsTag)
	outputResult(stats, func() {
		printStats(stats)
	})
	return nil
}

func printStats(s analytics.Stats) {
	title := "Analytics"
	if s.Tag != "" {
		title += fmt.Sprintf(" (tag: %s)", s.Tag)
	}
	outputHuman("%s\n\n", heading(title))

	row := func(name string, value interface{}) {
		outputHuman("  %s %v\n", label(fmt.Sprintf("%-22s", name+":")), value)
	}
	row("Publications", s.TotalPublications)
	row("Presentations", s.TotalPresentations)
	row("With citation data", s.WithCitationData)
	row("Total citations", s.TotalCitations)
	row("Average citations", s.AverageString())
	if s.MostCited != nil {
		row("Most cited", fmt.Sprintf("%s (%d)", truncateString(s.MostCited.Title, ListTitleMaxLen), s.MostCited.Citations))
	} else {
		row("Most cited", "N/A")
	}
	row("Unique authors", s.UniqueAuthors)
	row("Top tags", s.TopTagsString())

	printSeries("Publications per year", s.PublicationsPerYear)
	printSeries("Citations per year", s.CitationsPerYear)

	if len(s.AvailableTags) > 0 {
		outputHuman("\n%s\n  %s\n", heading("Tags"), strings.Join(s.AvailableTags, ", "))
	}
}

func printSeries(title string, points []analytics.YearValue) {
	if len(points) == 0 {
		return
	}
	outputHuman("\n%s\n", heading(title))
	for _, p := range points {
		outputHuman("  %d  %d\n", p.Year, p.Value)
	}
}
