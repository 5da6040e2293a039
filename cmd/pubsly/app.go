package main

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/ascsn/pubsly/internal/arxiv"
	"github.com/ascsn/pubsly/internal/collection"
	"github.com/ascsn/pubsly/internal/config"
	"github.com/ascsn/pubsly/internal/crossref"
	"github.com/ascsn/pubsly/internal/enrich"
	"github.com/ascsn/pubsly/internal/fetch"
	"github.com/ascsn/pubsly/internal/orcid"
	"github.com/ascsn/pubsly/internal/s2"
	"github.com/ascsn/pubsly/internal/storage"
)

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// newLogger builds the stderr logger. --log-level wins over the config.
func newLogger(cfg *config.Config) *log.Logger {
	name := cfg.LogLevel
	if logLevelFlag != "" {
		name = logLevelFlag
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		exitWithError(ExitError, "invalid --log-level %q", name)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:  level,
		Prefix: "pubsly",
	})
}

// mustOpenCollection opens the configured blob store and loads the
// collection from it. The caller closes the returned store.
func mustOpenCollection(cfg *config.Config, logger *log.Logger) (*collection.Store, storage.BlobStore) {
	blobs, err := storage.Open(cfg.StoreBackend, cfg.StorePath())
	if err != nil {
		exitWithError(ExitError, "opening store: %v", err)
	}
	return collection.Open(blobs, collection.WithLogger(logger)), blobs
}

// newCitationClient builds the Semantic Scholar client.
func newCitationClient(cfg *config.Config, logger *log.Logger) *s2.Client {
	return s2.NewClient(
		s2.WithBaseURL(cfg.S2URL),
		s2.WithAPIKey(cfg.S2APIKey),
		s2.WithTimeout(cfg.CitationTimeout),
		s2.WithLogger(logger),
	)
}

// newResolver wires the DOI, arXiv, and citation clients together.
func newResolver(cfg *config.Config, logger *log.Logger, citations fetch.CitationCounter) *fetch.Resolver {
	works := crossref.NewClient(
		crossref.WithBaseURL(cfg.CrossrefURL),
		crossref.WithTimeout(cfg.RequestTimeout),
		crossref.WithUserAgent(cfg.UserAgent),
		crossref.WithLogger(logger),
	)
	entries := arxiv.NewClient(
		arxiv.WithBaseURL(cfg.ArXivURL),
		arxiv.WithTimeout(cfg.RequestTimeout),
		arxiv.WithLogger(logger),
	)
	return fetch.NewResolver(works, entries, citations, fetch.WithLogger(logger))
}

// newEngine builds the enrichment engine over the configured registries.
func newEngine(cfg *config.Config, logger *log.Logger) *enrich.Engine {
	citations := newCitationClient(cfg, logger)
	return enrich.NewEngine(
		newResolver(cfg, logger, citations),
		citations,
		enrich.WithCitationDelay(cfg.CitationDelay),
		enrich.WithLogger(logger),
	)
}

// newORCIDClient builds the ORCID works client.
func newORCIDClient(cfg *config.Config, logger *log.Logger) *orcid.Client {
	return orcid.NewClient(
		orcid.WithBaseURL(cfg.ORCIDURL),
		orcid.WithTimeout(cfg.RequestTimeout),
		orcid.WithLogger(logger),
	)
}
