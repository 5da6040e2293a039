// Package config loads pubsly settings from the global YAML file, a .env
// file, and PUBSLY_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ascsn/pubsly/internal/arxiv"
	"github.com/ascsn/pubsly/internal/crossref"
	"github.com/ascsn/pubsly/internal/enrich"
	"github.com/ascsn/pubsly/internal/export"
	"github.com/ascsn/pubsly/internal/orcid"
	"github.com/ascsn/pubsly/internal/s2"
	"github.com/ascsn/pubsly/internal/storage"
)

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME and
	// XDG_DATA_HOME.
	ConfigDir = "pubsly"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// SQLiteFile is the database name inside the data directory.
	SQLiteFile = "pubsly.db"
)

// Config is the effective configuration after all sources are applied.
// Environment overrides are named PUBSLY_<NAME>, except the Semantic
// Scholar key, which uses the conventional S2_API_KEY.
type Config struct {
	AppName     string   `yaml:"app_name,omitempty" json:"app_name" envconfig:"PUBSLY_APP_NAME"`
	DefaultTags []string `yaml:"default_tags,omitempty" json:"default_tags" envconfig:"PUBSLY_DEFAULT_TAGS"`

	CrossrefURL string `yaml:"crossref_url,omitempty" json:"crossref_url" envconfig:"PUBSLY_CROSSREF_URL"`
	ArXivURL    string `yaml:"arxiv_url,omitempty" json:"arxiv_url" envconfig:"PUBSLY_ARXIV_URL"`
	S2URL       string `yaml:"s2_url,omitempty" json:"s2_url" envconfig:"PUBSLY_S2_URL"`
	ORCIDURL    string `yaml:"orcid_url,omitempty" json:"orcid_url" envconfig:"PUBSLY_ORCID_URL"`
	S2APIKey    string `yaml:"s2_api_key,omitempty" json:"-" envconfig:"S2_API_KEY"`
	UserAgent   string `yaml:"user_agent,omitempty" json:"user_agent,omitempty" envconfig:"PUBSLY_USER_AGENT"`

	RequestTimeout  time.Duration `yaml:"request_timeout,omitempty" json:"request_timeout" envconfig:"PUBSLY_REQUEST_TIMEOUT"`
	CitationTimeout time.Duration `yaml:"citation_timeout,omitempty" json:"citation_timeout" envconfig:"PUBSLY_CITATION_TIMEOUT"`
	CitationDelay   time.Duration `yaml:"citation_delay,omitempty" json:"citation_delay" envconfig:"PUBSLY_CITATION_DELAY"`

	StoreBackend string `yaml:"store_backend,omitempty" json:"store_backend" envconfig:"PUBSLY_STORE_BACKEND"`
	DataDir      string `yaml:"data_dir,omitempty" json:"data_dir" envconfig:"PUBSLY_DATA_DIR"`
	LogLevel     string `yaml:"log_level,omitempty" json:"log_level" envconfig:"PUBSLY_LOG_LEVEL"`
}

// Defaults returns the configuration used when no source sets a value.
func Defaults() Config {
	return Config{
		AppName:         export.DefaultAppName,
		DefaultTags:     []string{},
		CrossrefURL:     crossref.BaseURL,
		ArXivURL:        arxiv.BaseURL,
		S2URL:           s2.BaseURL,
		ORCIDURL:        orcid.BaseURL,
		RequestTimeout:  crossref.DefaultTimeout,
		CitationTimeout: s2.DefaultTimeout,
		CitationDelay:   enrich.DefaultCitationDelay,
		StoreBackend:    storage.BackendFile,
		DataDir:         DefaultDataDir(),
		LogLevel:        "warn",
	}
}

// cache holds the config loaded by Load.
var cache *Config

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/pubsly/config.yml.
func Path() string {
	return xdgPath("XDG_CONFIG_HOME", ".config", ConfigFile)
}

// DefaultDataDir returns $XDG_DATA_HOME/pubsly, defaulting to
// ~/.local/share/pubsly.
func DefaultDataDir() string {
	return xdgPath("XDG_DATA_HOME", filepath.Join(".local", "share"), "")
}

func xdgPath(env, fallback, name string) string {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, ConfigDir, name)
}

// Load returns the effective configuration, reading sources once per
// process.
func Load() (*Config, error) {
	if cache != nil {
		return cache, nil
	}

	// A missing .env is normal.
	_ = godotenv.Load()

	cfg, err := LoadFrom(Path())
	if err != nil {
		return nil, err
	}
	cache = cfg
	return cfg, nil
}

// ResetCache clears the cached config.
// Useful for testing.
func ResetCache() {
	cache = nil
}

// LoadFrom applies defaults, then the YAML file at path (if it exists),
// then environment overrides, and validates the result.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Tags carry full variable names, so no prefix is added.
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	cfg.DataDir = ExpandPath(cfg.DataDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case storage.BackendFile, storage.BackendSQLite:
	default:
		return fmt.Errorf("%w: store_backend %q (valid: %s, %s)", ErrInvalidConfig, c.StoreBackend, storage.BackendFile, storage.BackendSQLite)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.RequestTimeout <= 0 || c.CitationTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	if c.CitationDelay < 0 {
		return fmt.Errorf("%w: citation_delay must not be negative", ErrInvalidConfig)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is empty", ErrInvalidConfig)
	}
	return nil
}

// StorePath returns the location handed to storage.Open for the
// configured backend.
func (c *Config) StorePath() string {
	if c.StoreBackend == storage.BackendSQLite {
		return filepath.Join(c.DataDir, SQLiteFile)
	}
	return c.DataDir
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
