package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrStorageProviderUnknown  = errors.New("anchorlink config: storage provider is invalid")
	ErrStorageDSNRequired      = errors.New("anchorlink config: storage dsn is required")
	ErrCacheTTLInvalid         = errors.New("anchorlink config: cache ttl must be positive when cache is enabled")
	ErrSearchLayoutRequired    = errors.New("anchorlink config: search date layout is required")
	ErrSearchWindowInvalid     = errors.New("anchorlink config: search window must be at least one day")
	ErrSearchPostTypesRequired = errors.New("anchorlink config: at least one default post type is required")
	ErrSearchTimezoneInvalid   = errors.New("anchorlink config: search timezone is invalid")
	ErrMetaKeyRequired         = errors.New("anchorlink config: meta key is required")
	ErrMetaValueRequired       = errors.New("anchorlink config: meta value is required")
	ErrBlockNameRequired       = errors.New("anchorlink config: block name must be namespaced")
	ErrLoggingProviderUnknown  = errors.New("anchorlink config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("anchorlink config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("anchorlink config: logging format is invalid")
)

// Storage providers understood by internal/storage.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config aggregates runtime settings for the anchor-link module.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Cache   CacheConfig   `toml:"cache"`
	Search  SearchConfig  `toml:"search"`
	Meta    MetaConfig    `toml:"meta"`
	Posts   PostsConfig   `toml:"posts"`
	Import  ImportConfig  `toml:"import"`
	Logging LoggingConfig `toml:"logging"`
}

// StorageConfig selects the database driver and connection string.
type StorageConfig struct {
	Provider     string `toml:"provider"`
	DSN          string `toml:"dsn"`
	MaxOpenConns int    `toml:"max_open_conns"`
}

// CacheConfig captures cache behaviour toggles for repository lookups.
type CacheConfig struct {
	Enabled bool          `toml:"enabled"`
	TTL     time.Duration `toml:"ttl"`
}

// SearchConfig controls date parsing and defaulting of the flagged search.
type SearchConfig struct {
	DateLayout       string   `toml:"date_layout"`
	WindowDays       int      `toml:"window_days"`
	DefaultPostTypes []string `toml:"default_post_types"`
	Statuses         []string `toml:"statuses"`
	Timezone         string   `toml:"timezone"`
}

// Location resolves Timezone, defaulting to the process local zone.
func (c SearchConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSearchTimezoneInvalid, name)
	}
	return loc, nil
}

// MetaConfig names the flag written by the synchronizer and the block it tracks.
type MetaConfig struct {
	Key       string `toml:"key"`
	Value     string `toml:"value"`
	BlockName string `toml:"block_name"`
}

// PostsConfig captures save pipeline behaviour.
type PostsConfig struct {
	Revisions bool `toml:"revisions"`
}

// ImportConfig captures markdown import defaults.
type ImportConfig struct {
	Pattern   string `toml:"pattern"`
	Recursive bool   `toml:"recursive"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `toml:"provider"`
	Level     string   `toml:"level"`
	Format    string   `toml:"format"`
	AddSource bool     `toml:"add_source"`
	Focus     []string `toml:"focus"`
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider:     StorageSQLite,
			DSN:          "file:anchorlink.db?cache=shared&_fk=1",
			MaxOpenConns: 1,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Minute,
		},
		Search: SearchConfig{
			DateLayout:       "02-01-2006",
			WindowDays:       30,
			DefaultPostTypes: []string{"post", "page"},
		},
		Meta: MetaConfig{
			Key:       "dmg-read-more",
			Value:     "1",
			BlockName: "create-block/dmg-anchor-link",
		},
		Posts: PostsConfig{
			Revisions: true,
		},
		Import: ImportConfig{
			Pattern:   "*.md",
			Recursive: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalizeProvider(cfg.Storage.Provider) {
	case StorageSQLite, StoragePostgres:
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if strings.TrimSpace(cfg.Search.DateLayout) == "" {
		return ErrSearchLayoutRequired
	}
	if cfg.Search.WindowDays < 1 {
		return fmt.Errorf("%w: %d", ErrSearchWindowInvalid, cfg.Search.WindowDays)
	}
	if len(cfg.Search.DefaultPostTypes) == 0 {
		return ErrSearchPostTypesRequired
	}
	if _, err := cfg.Search.Location(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Meta.Key) == "" {
		return ErrMetaKeyRequired
	}
	if cfg.Meta.Value == "" {
		return ErrMetaValueRequired
	}
	if name := strings.TrimSpace(cfg.Meta.BlockName); !strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrBlockNameRequired, cfg.Meta.BlockName)
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
