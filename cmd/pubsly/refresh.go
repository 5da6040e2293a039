package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh-citations",
	Short: "Fetch missing citation counts from Semantic Scholar",
	Long: `Look up citation counts for every DOI or arXiv publication that has
none yet. Lookups are spaced by citation_delay and the collection is
written once at the end. Counts already present are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	store, blobs := mustOpenCollection(cfg, logger)
	defer blobs.Close()

	report, err := newEngine(cfg, logger).RefreshCitations(cmd.Context(), store)
	if err != nil {
		exitWithError(ExitError, "refreshing citations: %v", err)
	}

	outputResult(report, func() {
		if report.Eligible == 0 {
			outputHuman("No publications are missing citation counts.\n")
			return
		}
		outputHuman("Citation refresh complete. Updated: %d. Failed/no data for: %d.\n",
			report.Updated, report.Failed)
	})
	return nil
}
