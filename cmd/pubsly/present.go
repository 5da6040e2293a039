package main

import (
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ascsn/pubsly/internal/reference"
)

// DateLayout is the calendar date format presentations are stored in.
const DateLayout = "2006-01-02"

var (
	presentID       string
	presentTitle    string
	presentSpeaker  string
	presentDate     string
	presentLocation string
	presentLink     string
	presentFile     string
)

func init() {
	presentCmd.Flags().StringVar(&presentID, "id", "", "Presentation id (replaces an existing entry with the same id)")
	presentCmd.Flags().StringVar(&presentTitle, "title", "", "Title (required)")
	presentCmd.Flags().StringVar(&presentSpeaker, "speaker", "", "Speaker name (defaults to the last speaker used)")
	presentCmd.Flags().StringVar(&presentDate, "date", "", "Date as YYYY-MM-DD (required)")
	presentCmd.Flags().StringVar(&presentLocation, "location", "", "Venue or event (required)")
	presentCmd.Flags().StringVar(&presentLink, "link", "", "Link to slides or recording")
	presentCmd.Flags().StringVar(&presentFile, "file", "", "Attached file; only its name and type are recorded")
	rootCmd.AddCommand(presentCmd)
}

var presentCmd = &cobra.Command{
	Use:   "present",
	Short: "Record a presentation",
	Long: `Record a talk, poster, or seminar.

The speaker defaults to the name used for the previous presentation.

Examples:
  pubsly present --title "Emulators for nuclear physics" --date 2024-05-17 --location "INT Seattle"
  pubsly present --title "Poster" --date 2024-06-01 --location "DNP" --speaker "T. Yu" --file poster.pdf`,
	Args: cobra.NoArgs,
	RunE: runPresent,
}

// PresentResponse is the response for the present command.
type PresentResponse struct {
	Status       string                 `json:"status"`
	Presentation reference.Presentation `json:"presentation"`
}

func runPresent(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(presentTitle) == "" {
		exitWithError(ExitError, "--title is required")
	}
	if strings.TrimSpace(presentLocation) == "" {
		exitWithError(ExitError, "--location is required")
	}
	if _, err := time.Parse(DateLayout, presentDate); err != nil {
		exitWithError(ExitError, "--date must be YYYY-MM-DD, got %q", presentDate)
	}

	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	store, blobs := mustOpenCollection(cfg, logger)
	defer blobs.Close()

	speaker := strings.TrimSpace(presentSpeaker)
	if speaker == "" {
		speaker = store.LastSpeakerName()
	}
	if speaker == "" {
		exitWithError(ExitError, "--speaker is required (no previous speaker recorded)")
	}

	pres := reference.Presentation{
		ID:       presentID,
		Title:    strings.TrimSpace(presentTitle),
		Speaker:  speaker,
		Date:     presentDate,
		Location: strings.TrimSpace(presentLocation),
		Link:     presentLink,
	}
	if presentFile != "" {
		pres.FileName = filepath.Base(presentFile)
		pres.FileType = mime.TypeByExtension(filepath.Ext(presentFile))
	}

	saved, err := store.AddPresentation(pres)
	if err != nil {
		exitWithErr(err, "saving presentation")
	}

	outputResult(PresentResponse{Status: "added", Presentation: saved}, func() {
		outputHuman("%s %s\n", heading("added"), saved.ID)
		printPresentationLine(saved)
	})
	return nil
}

// printPresentationLine prints a one-line presentation summary.
func printPresentationLine(p reference.Presentation) {
	outputHuman("%s  %s  %s\n", p.Date, p.ID, truncateString(p.Title, ListTitleMaxLen))
	outputHuman("      %s, %s\n", p.Speaker, p.Location)
}
