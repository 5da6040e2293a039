package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ascsn/pubsly/internal/config"
	"github.com/ascsn/pubsly/internal/storage"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after defaults, the config file, .env, and
PUBSLY_* environment variables are applied. The Semantic Scholar API key
is reported as set or unset, never printed. The time the collection was
last saved is shown when the store exists.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigView is the printable form of config.Config. Durations are
// rendered as strings ("20s") rather than nanoseconds.
type ConfigView struct {
	Path            string   `json:"path"`
	AppName         string   `json:"app_name"`
	DefaultTags     []string `json:"default_tags"`
	CrossrefURL     string   `json:"crossref_url"`
	ArXivURL        string   `json:"arxiv_url"`
	S2URL           string   `json:"s2_url"`
	ORCIDURL        string   `json:"orcid_url"`
	S2APIKeySet     bool     `json:"s2_api_key_set"`
	UserAgent       string   `json:"user_agent,omitempty"`
	RequestTimeout  string   `json:"request_timeout"`
	CitationTimeout string   `json:"citation_timeout"`
	CitationDelay   string   `json:"citation_delay"`
	StoreBackend    string   `json:"store_backend"`
	StorePath       string   `json:"store_path"`
	LogLevel        string   `json:"log_level"`
	LastSaved       string   `json:"last_saved,omitempty"`
}

func newConfigView(cfg *config.Config) ConfigView {
	return ConfigView{
		Path:            config.Path(),
		AppName:         cfg.AppName,
		DefaultTags:     cfg.DefaultTags,
		CrossrefURL:     cfg.CrossrefURL,
		ArXivURL:        cfg.ArXivURL,
		S2URL:           cfg.S2URL,
		ORCIDURL:        cfg.ORCIDURL,
		S2APIKeySet:     cfg.S2APIKey != "",
		UserAgent:       cfg.UserAgent,
		RequestTimeout:  cfg.RequestTimeout.String(),
		CitationTimeout: cfg.CitationTimeout.String(),
		CitationDelay:   cfg.CitationDelay.String(),
		StoreBackend:    cfg.StoreBackend,
		StorePath:       cfg.StorePath(),
		LogLevel:        cfg.LogLevel,
		LastSaved:       lastSaved(cfg),
	}
}

// lastSaved returns when the collection was last saved as RFC 3339, or ""
// when the store does not exist yet. A missing store is not created.
func lastSaved(cfg *config.Config) string {
	if _, err := os.Stat(cfg.StorePath()); err != nil {
		return ""
	}
	blobs, err := storage.Open(cfg.StoreBackend, cfg.StorePath())
	if err != nil {
		return ""
	}
	defer blobs.Close()
	at, err := storage.LastSaved(blobs, storage.DataKey)
	if err != nil {
		return ""
	}
	return at.Format(time.RFC3339)
}

func runConfig(cmd *cobra.Command, args []string) error {
	view := newConfigView(mustLoadConfig())
	outputResult(view, func() {
		outputHuman("%s\n", heading("pubsly configuration"))
		outputHuman("  %s %s\n\n", label("file:"), view.Path)
		rows := [][2]string{
			{"app_name", view.AppName},
			{"crossref_url", view.CrossrefURL},
			{"arxiv_url", view.ArXivURL},
			{"s2_url", view.S2URL},
			{"orcid_url", view.ORCIDURL},
			{"request_timeout", view.RequestTimeout},
			{"citation_timeout", view.CitationTimeout},
			{"citation_delay", view.CitationDelay},
			{"store_backend", view.StoreBackend},
			{"store_path", view.StorePath},
			{"log_level", view.LogLevel},
		}
		for _, r := range rows {
			outputHuman("  %-18s %s\n", r[0]+":", r[1])
		}
		outputHuman("  %-18s %v\n", "default_tags:", view.DefaultTags)
		key := "unset"
		if view.S2APIKeySet {
			key = "set"
		}
		outputHuman("  %-18s %s\n", "s2_api_key:", key)
		saved := view.LastSaved
		if saved == "" {
			saved = "never"
		}
		outputHuman("  %-18s %s\n", "last_saved:", saved)
	})
	return nil
}
