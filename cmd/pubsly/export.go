package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ascsn/pubsly/internal/collection"
	"github.com/ascsn/pubsly/internal/export"
)

var (
	exportTag    string
	exportOutDir string
)

func init() {
	exportCmd.PersistentFlags().StringVar(&exportTag, "tag", "", "Only export publications carrying this tag (txt and bib)")
	exportCmd.PersistentFlags().StringVar(&exportOutDir, "out-dir", "", "Write to a file in this directory instead of stdout")

	exportCmd.AddCommand(exportJSONCmd)
	exportCmd.AddCommand(exportTextCmd)
	exportCmd.AddCommand(exportBibCmd)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the collection as JSON, text, or BibTeX",
	Long: `Export the collection.

Output goes to stdout unless --out-dir is given, in which case a file
named after the format (and tag) is written there.

Examples:
  pubsly export json --out-dir ~/backups
  pubsly export txt --tag nuclear
  pubsly export bib --tag "ND workshop" > refs.bib`,
}

var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Export the full snapshot as JSON (ignores --tag)",
	Args:  cobra.NoArgs,
	RunE:  runExport(export.FormatJSON),
}

var exportTextCmd = &cobra.Command{
	Use:   "txt",
	Short: "Export a plain-text report",
	Args:  cobra.NoArgs,
	RunE:  runExport(export.FormatText),
}

var exportBibCmd = &cobra.Command{
	Use:   "bib",
	Short: "Export publications as BibTeX",
	Args:  cobra.NoArgs,
	RunE:  runExport(export.FormatBibTeX),
}

func runExport(format export.Format) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		logger := newLogger(cfg)
		store, blobs := mustOpenCollection(cfg, logger)
		defer blobs.Close()

		data, err := renderExport(format, store, export.Options{
			AppName: cfg.AppName,
			Tag:     exportTag,
			Now:     time.Now(),
		})
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}

		if exportOutDir == "" {
			if _, err := os.Stdout.Write(data); err != nil {
				exitWithError(ExitError, "writing output: %v", err)
			}
			return nil
		}

		path := filepath.Join(exportOutDir, export.FileName(format, exportTag))
		if err := os.MkdirAll(exportOutDir, 0755); err != nil {
			exitWithError(ExitError, "creating %s: %v", exportOutDir, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", path, err)
		}
		logger.Info("export written", "format", format, "path", path)

		outputResult(StatusResponse{Status: "written", Path: path}, func() {
			outputHuman("Wrote %s\n", path)
		})
		return nil
	}
}

// renderExport produces the bytes for one export format. The result ends
// with a newline.
func renderExport(format export.Format, store *collection.Store, opts export.Options) ([]byte, error) {
	switch format {
	case export.FormatJSON:
		data, err := export.JSON(store.Snapshot())
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case export.FormatText:
		pubs := collection.FilterByTag(store.Publications(), opts.Tag)
		return []byte(export.Text(pubs, store.Presentations(), opts)), nil
	case export.FormatBibTeX:
		pubs := collection.FilterByTag(store.Publications(), opts.Tag)
		if len(pubs) == 0 {
			if opts.Tag != "" {
				return nil, fmt.Errorf("no publications tagged %q to export", opts.Tag)
			}
			return nil, fmt.Errorf("no publications to export")
		}
		return []byte(export.BibTeX(pubs, opts)), nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}
