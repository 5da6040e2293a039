package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ascsn/pubsly/internal/author"
	"github.com/ascsn/pubsly/internal/collection"
	"github.com/ascsn/pubsly/internal/reference"
)

var (
	listTag           string
	listAuthor        string
	listPresentations bool
	listTags          bool
)

func init() {
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only publications carrying this tag (case-insensitive)")
	listCmd.Flags().StringVar(&listAuthor, "author", "", `Only publications by this author ("Family", "First Family", or "Family, First")`)
	listCmd.Flags().BoolVar(&listPresentations, "presentations", false, "List presentations instead of publications")
	listCmd.Flags().BoolVar(&listTags, "tags", false, "List every tag in use")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List publications, presentations, or tags",
	Long: `List the collection, newest first.

Examples:
  pubsly list --tag nuclear
  pubsly list --author "Yu, T"
  pubsly list --presentations --human
  pubsly list --tags`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	store, blobs := mustOpenCollection(cfg, logger)
	defer blobs.Close()

	switch {
	case listTags:
		tags := collection.AllTags(store.Publications())
		outputResult(tags, func() {
			if len(tags) == 0 {
				outputHuman("No tags.\n")
				return
			}
			outputHuman("%s\n", strings.Join(tags, "\n"))
		})
	case listPresentations:
		pres := store.Presentations()
		outputResult(pres, func() {
			if len(pres) == 0 {
				outputHuman("No presentations.\n")
				return
			}
			for _, p := range pres {
				printPresentationLine(p)
			}
		})
	default:
		pubs := filterPublications(store.Publications(), listTag, listAuthor)
		outputResult(pubs, func() {
			if len(pubs) == 0 {
				outputHuman("No publications.\n")
				return
			}
			outputHuman("%s\n\n", heading(plural(len(pubs), "publication")))
			for _, p := range pubs {
				printPublicationLine(p)
			}
		})
	}
	return nil
}

// filterPublications applies the --tag and --author filters. The result
// is never nil so that JSON output is always an array.
func filterPublications(pubs []reference.Publication, tag, who string) []reference.Publication {
	pubs = collection.FilterByTag(pubs, tag)
	q := author.ParseQuery(who)
	out := make([]reference.Publication, 0, len(pubs))
	for _, p := range pubs {
		if q.IsZero() || q.MatchesAny(p.Authors) {
			out = append(out, p)
		}
	}
	return out
}
