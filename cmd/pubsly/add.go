package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ascsn/pubsly/internal/author"
	"github.com/ascsn/pubsly/internal/config"
	"github.com/ascsn/pubsly/internal/fetch"
	"github.com/ascsn/pubsly/internal/identifier"
	"github.com/ascsn/pubsly/internal/pdf"
	"github.com/ascsn/pubsly/internal/reference"
)

var (
	addPDF         string
	addTags        []string
	addDefaultTags bool
	addManual      bool
	addTitle       string
	addAuthors     string
	addYear        int
	addSource      string
	addAbstract    string
	addURL         string
)

func init() {
	addCmd.Flags().StringVar(&addPDF, "pdf", "", "Read the DOI or arXiv id from a PDF file")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "Tags to attach (comma-separated)")
	addCmd.Flags().BoolVar(&addDefaultTags, "default-tags", false, "Also attach the configured default tags")
	addCmd.Flags().BoolVar(&addManual, "manual", false, "Store the entered fields when the identifier cannot be resolved")
	addCmd.Flags().StringVar(&addTitle, "title", "", "Title (manual entry)")
	addCmd.Flags().StringVar(&addAuthors, "author", "", `Authors joined by " and " (manual entry)`)
	addCmd.Flags().IntVar(&addYear, "year", 0, "Publication year (manual entry)")
	addCmd.Flags().StringVar(&addSource, "source", "", "Journal, conference, or publisher (manual entry)")
	addCmd.Flags().StringVar(&addAbstract, "abstract", "", "Abstract (manual entry)")
	addCmd.Flags().StringVar(&addURL, "url", "", "URL (manual entry)")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add [identifier]",
	Short: "Add a publication by DOI, arXiv id, or PDF",
	Long: `Add a publication. Metadata is fetched from Crossref (DOIs) or arXiv,
and the citation count from Semantic Scholar. Adding an id that is already
in the collection replaces the stored entry.

When nothing is found the command prints a prefilled manual record and
exits with code 4; rerun with --manual and the fields to store it.

Examples:
  pubsly add 10.1103/PhysRevC.108.014301 --tags nuclear,theory
  pubsly add https://arxiv.org/abs/2101.00001v2
  pubsly add --pdf paper.pdf --default-tags
  pubsly add 10.5281/zenodo.123 --manual --title "Dataset" --author "Yu, Timothy" --year 2024`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

// ManualPrefill is the starting point offered for manual entry.
type ManualPrefill struct {
	ID   string         `json:"id"`
	Type reference.Kind `json:"type"`
}

// AddResponse is the response for the add command.
type AddResponse struct {
	Status      string                 `json:"status"` // added, updated, not_found, failed
	Publication *reference.Publication `json:"publication,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Manual      *ManualPrefill         `json:"manual,omitempty"`
}

func runAdd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && addPDF == "" && !addManual {
		exitWithError(ExitError, "an identifier, --pdf, or --manual is required")
	}

	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	ctx := cmd.Context()

	var (
		id  identifier.Identifier
		res fetch.Result
		err error
	)
	switch {
	case addPDF != "":
		id, err = pdf.Identify(addPDF)
		if err != nil && !addManual {
			exitWithErr(err, "reading PDF")
		}
		if id.Recognized() {
			res = newResolver(cfg, logger, newCitationClient(cfg, logger)).Lookup(ctx, id)
		}
	case len(args) == 1:
		id = identifier.Parse(args[0])
		res = newResolver(cfg, logger, newCitationClient(cfg, logger)).Resolve(ctx, args[0])
	}

	tags := addTagSet(cfg)
	var pub reference.Publication
	switch {
	case res.OK():
		pub = res.Publication
		pub.Tags = reference.UnionTags(pub.Tags, tags)
	case addManual:
		if addTitle == "" {
			exitWithError(ExitError, "--title is required for manual entry")
		}
		pub = newEngine(cfg, logger).Manual(manualPartial(id, tags))
	default:
		reportNotFound(id, res)
	}

	store, blobs := mustOpenCollection(cfg, logger)
	defer blobs.Close()

	_, existed := store.Publication(pub.ID)
	if err := store.AddPublication(pub); err != nil {
		exitWithError(ExitError, "saving publication: %v", err)
	}

	resp := AddResponse{Status: "added", Publication: &pub}
	if existed {
		resp.Status = "updated"
	}
	outputResult(resp, func() {
		outputHuman("%s %s\n", heading(resp.Status), pub.ID)
		printPublicationLine(pub)
	})
	return nil
}

// addTagSet combines --tags with the configured defaults when requested.
func addTagSet(cfg *config.Config) []string {
	tags := addTags
	if addDefaultTags {
		tags = append(append([]string(nil), tags...), cfg.DefaultTags...)
	}
	return reference.NormalizeTags(tags)
}

// manualPartial collects the manual-entry flags. A recognized identifier
// keeps its id and kind; otherwise a manual id is generated.
func manualPartial(id identifier.Identifier, tags []string) reference.Partial {
	p := reference.Partial{
		Title:    addTitle,
		Authors:  author.ParseList(addAuthors),
		Year:     addYear,
		Source:   addSource,
		Abstract: addAbstract,
		URL:      addURL,
		Tags:     tags,
	}
	if id.Recognized() {
		p.ID = id.Value
		p.Kind = id.PublicationKind()
	}
	return p
}

// manualPrefill returns the record offered for manual entry, or nil when
// the input was not a DOI or arXiv id.
func manualPrefill(id identifier.Identifier) *ManualPrefill {
	if !id.Recognized() {
		return nil
	}
	return &ManualPrefill{ID: id.Value, Type: id.PublicationKind()}
}

// reportNotFound prints the failed lookup with a manual-entry prefill and
// exits.
func reportNotFound(id identifier.Identifier, res fetch.Result) {
	resp := AddResponse{Status: res.Status.String()}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	resp.Manual = manualPrefill(id)

	code := ExitNotFound
	if res.Status == fetch.Failed {
		code = ExitAPIError
	}

	outputResult(resp, func() {
		outputHuman("%s: %s\n", heading("Could not fetch metadata"), resp.Error)
		if resp.Manual != nil {
			outputHuman("Add it manually with: pubsly add %s --manual --title ...\n", resp.Manual.ID)
		} else {
			outputHuman("Add it manually with: pubsly add --manual --title ...\n")
		}
	})
	os.Exit(code)
}
