package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ascsn/pubsly/internal/collection"
	"github.com/ascsn/pubsly/internal/enrich"
	"github.com/ascsn/pubsly/internal/importer"
	"github.com/ascsn/pubsly/internal/reference"
)

var (
	importSelect []string
	importTags   []string
	importDryRun bool
	importYes    bool
)

func init() {
	importCmd.PersistentFlags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without writing")

	importJSONCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Replace a non-empty collection")

	for _, c := range []*cobra.Command{importBibTeXCmd, importORCIDCmd} {
		c.Flags().StringSliceVar(&importSelect, "select", nil, "Only import these record ids (comma-separated, case-insensitive)")
		c.Flags().StringSliceVar(&importTags, "tags", nil, "Tags to attach to every imported record")
	}

	importCmd.AddCommand(importJSONCmd)
	importCmd.AddCommand(importBibTeXCmd)
	importCmd.AddCommand(importORCIDCmd)
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import from a JSON export, a BibTeX file, or an ORCID record",
	Long: `Import publications.

json replaces the whole collection with a previous export. bibtex and
orcid add records one at a time, enriching each from Crossref or arXiv
when it carries a DOI or arXiv id and skipping records already present.

Examples:
  pubsly import json pubsly_data.json --yes
  pubsly import bibtex refs.bib --dry-run
  pubsly import bibtex refs.bib --select 10.1103/physrevc.108.014301
  pubsly import orcid 0000-0002-1825-0097 --tags group`,
}

var importJSONCmd = &cobra.Command{
	Use:   "json <file>",
	Short: "Replace the collection with a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportJSON,
}

var importBibTeXCmd = &cobra.Command{
	Use:   "bibtex <file>",
	Short: "Import entries from a BibTeX file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportBibTeX,
}

var importORCIDCmd = &cobra.Command{
	Use:   "orcid <orcid-id>",
	Short: "Import the works listed on an ORCID record",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportORCID,
}

// ImportSummary describes a full-collection replacement.
type ImportSummary struct {
	Status        string `json:"status"` // replaced, dry_run
	Publications  int    `json:"publications"`
	Presentations int    `json:"presentations"`
}

// Candidate is one record a bibtex or orcid import would consider.
type Candidate struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	Duplicate bool   `json:"duplicate"`
}

func runImportJSON(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", args[0], err)
	}
	snap, err := importer.ParseSnapshot(data)
	if err != nil {
		exitWithErr(err, "parsing "+args[0])
	}

	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	store, blobs := mustOpenCollection(cfg, logger)
	defer blobs.Close()

	summary := ImportSummary{
		Status:        "replaced",
		Publications:  len(snap.Publications),
		Presentations: len(snap.Presentations),
	}
	if importDryRun {
		summary.Status = "dry_run"
	} else {
		current := store.Snapshot()
		if !importYes && (len(current.Publications) > 0 || len(current.Presentations) > 0) {
			exitWithError(ExitError, "this replaces %s and %s; rerun with --yes",
				plural(len(current.Publications), "publication"),
				plural(len(current.Presentations), "presentation"))
		}
		if err := store.Replace(snap); err != nil {
			exitWithError(ExitError, "saving collection: %v", err)
		}
	}

	outputResult(summary, func() {
		verb := "Imported"
		if importDryRun {
			verb = "Would import"
		}
		outputHuman("%s %s and %s.\n", verb,
			plural(summary.Publications, "publication"),
			plural(summary.Presentations, "presentation"))
	})
	return nil
}

func runImportBibTeX(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", args[0], err)
	}
	partials := importer.ParseBibTeX(string(data))
	if len(partials) == 0 {
		exitWithError(ExitDataError, "no BibTeX entries found in %s", args[0])
	}
	runBatchImport(cmd, partials)
	return nil
}

func runImportORCID(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	partials, err := newORCIDClient(cfg, logger).Works(cmd.Context(), args[0])
	if err != nil {
		exitWithErr(err, "fetching ORCID works")
	}
	if len(partials) == 0 {
		exitWithError(ExitNotFound, "no works listed for %s", args[0])
	}
	runBatchImport(cmd, partials)
	return nil
}

// runBatchImport applies --select and --tags, then either lists the
// candidates (--dry-run) or imports them.
func runBatchImport(cmd *cobra.Command, partials []reference.Partial) {
	partials = selectPartials(partials, importSelect)
	if len(partials) == 0 {
		exitWithError(ExitNotFound, "no records match --select")
	}
	for i := range partials {
		partials[i].Tags = reference.UnionTags(partials[i].Tags, importTags)
	}

	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	store, blobs := mustOpenCollection(cfg, logger)
	defer blobs.Close()

	if importDryRun {
		candidates := listCandidates(partials, store)
		outputResult(candidates, func() {
			for _, c := range candidates {
				mark := " "
				if c.Duplicate {
					mark = "="
				}
				outputHuman("%s %s  %s\n", mark, c.ID, truncateString(c.Title, ImportTitleMaxLen))
			}
			outputHuman("\n%s (= already in collection)\n", plural(len(candidates), "record"))
		})
		return
	}

	report := newEngine(cfg, logger).ImportBatch(cmd.Context(), partials, store)
	outputResult(report, func() {
		for _, item := range report.Items {
			outputHuman("%-8s %s  %s\n", item.Outcome, item.ID, truncateString(item.Title, ImportTitleMaxLen))
			if item.Error != "" {
				outputHuman("         %s\n", item.Error)
			}
		}
		outputHuman("\nAdded: %d. Skipped: %d. Failed: %d.\n", report.Added, report.Skipped, report.Failed)
	})
}

// selectPartials keeps the partials whose id is in ids, compared
// case-insensitively. An empty ids list keeps everything.
func selectPartials(partials []reference.Partial, ids []string) []reference.Partial {
	if len(ids) == 0 {
		return partials
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[strings.ToLower(strings.TrimSpace(id))] = true
	}
	var out []reference.Partial
	for _, p := range partials {
		if want[strings.ToLower(p.ID)] {
			out = append(out, p)
		}
	}
	return out
}

// listCandidates flags which partials already exist in the collection.
func listCandidates(partials []reference.Partial, store *collection.Store) []Candidate {
	existing := store.Publications()
	out := make([]Candidate, 0, len(partials))
	for _, p := range partials {
		out = append(out, Candidate{
			ID:        p.ID,
			Title:     p.Title,
			Year:      p.Year,
			Duplicate: enrich.IsDuplicate(p, existing),
		})
	}
	return out
}
