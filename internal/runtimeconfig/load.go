package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ANCHORLINK_"

// LookupFunc resolves environment variables.
type LookupFunc func(key string) (string, bool)

// Load builds a Config from defaults, an optional TOML file at path, dotenv
// files and ANCHORLINK_* environment variables, in that order of precedence
// (later wins). Missing dotenv files are ignored; a missing config file is an
// error only when path is set.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("loading env file %s: %w", file, err)
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays ANCHORLINK_* variables resolved through lookup onto cfg.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if cfg == nil || lookup == nil {
		return nil
	}
	get := func(name string) (string, bool) {
		value, ok := lookup(EnvPrefix + name)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(value), true
	}

	if v, ok := get("STORAGE_PROVIDER"); ok {
		cfg.Storage.Provider = v
	}
	if v, ok := get("STORAGE_DSN"); ok {
		cfg.Storage.DSN = v
	}
	if v, ok := get("CACHE_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_ENABLED: %w", EnvPrefix, err)
		}
		cfg.Cache.Enabled = enabled
	}
	if v, ok := get("CACHE_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_TTL: %w", EnvPrefix, err)
		}
		cfg.Cache.TTL = ttl
	}
	if v, ok := get("SEARCH_WINDOW_DAYS"); ok {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sSEARCH_WINDOW_DAYS: %w", EnvPrefix, err)
		}
		cfg.Search.WindowDays = days
	}
	if v, ok := get("SEARCH_POST_TYPES"); ok {
		cfg.Search.DefaultPostTypes = splitList(v)
	}
	if v, ok := get("SEARCH_STATUSES"); ok {
		cfg.Search.Statuses = splitList(v)
	}
	if v, ok := get("SEARCH_TIMEZONE"); ok {
		cfg.Search.Timezone = v
	}
	if v, ok := get("META_KEY"); ok {
		cfg.Meta.Key = v
	}
	if v, ok := get("LOG_PROVIDER"); ok {
		cfg.Logging.Provider = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.Logging.Format = v
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
