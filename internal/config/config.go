// Package config builds the immutable run configuration from defaults, an
// optional YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ilexum-group/webtrail/pkg/models"
)

// ErrConfiguration marks a configuration that cannot produce a search
var ErrConfiguration = errors.New("configuration error")

// Config holds the configuration for one invocation. It is built once and
// passed by value or pointer to every component; nothing mutates it later.
type Config struct {
	Sources           []string          `yaml:"sources"`
	IgnoredDomains    []string          `yaml:"ignored_domains"`
	Combinator        models.Combinator `yaml:"search_operator"`
	SortKey           models.SortKey    `yaml:"sort_by"`
	Limit             int               `yaml:"limit"`
	Favicons          bool              `yaml:"favicons"`
	FaviconMaxAgeDays int               `yaml:"favicon_max_age_days"`
	FaviconEndpoint   string            `yaml:"favicon_endpoint"`
	FaviconRate       float64           `yaml:"favicon_requests_per_second"`
	DateFormat        string            `yaml:"date_format"`
	CacheDir          string            `yaml:"cache_dir"`
	TempDir           string            `yaml:"temp_dir"`
	HomeDir           string            `yaml:"home_dir"`
	Workers           int               `yaml:"workers"`
	SourceTimeout     time.Duration     `yaml:"source_timeout"`
	FetchTimeout      time.Duration     `yaml:"fetch_timeout"`
	HistoryLimit      int               `yaml:"history_limit"`
	LogLevel          string            `yaml:"log_level"`
}

// DefaultFaviconEndpoint is the favicon service; %s is replaced by the domain
const DefaultFaviconEndpoint = "https://www.google.com/s2/favicons?domain=%s&sz=128"

// Default returns a Config populated with all default values
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Sources:           []string{"chrome", "chrome_bookmarks", "firefox", "safari", "safari_bookmarks"},
		IgnoredDomains:    []string{},
		Combinator:        models.CombinatorAnd,
		SortKey:           models.SortByVisits,
		Limit:             30,
		Favicons:          true,
		FaviconMaxAgeDays: 60,
		FaviconEndpoint:   DefaultFaviconEndpoint,
		FaviconRate:       20,
		DateFormat:        "2006-01-02 15:04",
		CacheDir:          defaultCacheDir(),
		TempDir:           os.TempDir(),
		HomeDir:           home,
		Workers:           8,
		SourceTimeout:     5 * time.Second,
		FetchTimeout:      5 * time.Second,
		HistoryLimit:      1000,
		LogLevel:          "warn",
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "webtrail", "favicons")
	}
	return filepath.Join(os.TempDir(), "webtrail", "favicons")
}

// FaviconMaxAge returns the favicon eviction threshold
func (c *Config) FaviconMaxAge() time.Duration {
	return time.Duration(c.FaviconMaxAgeDays) * 24 * time.Hour
}

// Load builds a Config from defaults, the YAML file named by WEBTRAIL_CONFIG
// (if any) and environment variables. getenv is usually os.Getenv.
func Load(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path := getenv("WEBTRAIL_CONFIG"); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// MergeFile overlays the YAML file at path onto c
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the user's own configuration
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from WEBTRAIL_* variables. The lowercase names
// set by the workflow host (sources, search_operator, ...) are honoured too.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	env := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				return v
			}
		}
		return ""
	}

	if v := env("WEBTRAIL_SOURCES", "sources"); v != "" {
		c.Sources = splitList(v)
	}
	if v := env("WEBTRAIL_IGNORED_DOMAINS", "ignored_domains"); v != "" {
		c.IgnoredDomains = splitList(v)
	}
	if v := env("WEBTRAIL_SEARCH_OPERATOR", "search_operator"); v != "" {
		c.Combinator = models.Combinator(strings.ToUpper(v))
	}
	if v := env("WEBTRAIL_SORT_BY", "sort_by"); v != "" {
		key, err := ParseSortKey(v)
		if err != nil {
			return err
		}
		c.SortKey = key
	}
	if v := env("WEBTRAIL_DATE_FORMAT", "date_format"); v != "" {
		c.DateFormat = v
	}
	if v := env("WEBTRAIL_CACHE_DIR", "alfred_workflow_cache"); v != "" {
		c.CacheDir = v
	}
	if v := env("WEBTRAIL_TEMP_DIR"); v != "" {
		c.TempDir = v
	}
	if v := env("WEBTRAIL_HOME"); v != "" {
		c.HomeDir = v
	}
	if v := env("WEBTRAIL_FAVICON_ENDPOINT"); v != "" {
		c.FaviconEndpoint = v
	}
	if v := env("WEBTRAIL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := env("WEBTRAIL_FAVICONS", "favicons"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: favicons=%q: %v", ErrConfiguration, v, err)
		}
		c.Favicons = b
	}

	ints := []struct {
		keys []string
		dst  *int
	}{
		{[]string{"WEBTRAIL_LIMIT", "limit"}, &c.Limit},
		{[]string{"WEBTRAIL_FAVICON_MAX_AGE_DAYS"}, &c.FaviconMaxAgeDays},
		{[]string{"WEBTRAIL_WORKERS"}, &c.Workers},
		{[]string{"WEBTRAIL_HISTORY_LIMIT"}, &c.HistoryLimit},
	}
	for _, f := range ints {
		v := env(f.keys...)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrConfiguration, f.keys[0], v)
		}
		*f.dst = n
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"WEBTRAIL_SOURCE_TIMEOUT", &c.SourceTimeout},
		{"WEBTRAIL_FETCH_TIMEOUT", &c.FetchTimeout},
	}
	for _, f := range durations {
		v := env(f.key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrConfiguration, f.key, v, err)
		}
		*f.dst = d
	}

	return nil
}

// ParseSortKey accepts the canonical key names and the short aliases
// "visits" and "recent".
func ParseSortKey(s string) (models.SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "visits", "visit_count", "count":
		return models.SortByVisits, nil
	case "recent", "last_visit", "date":
		return models.SortByRecency, nil
	default:
		return "", fmt.Errorf("%w: unknown sort key %q", ErrConfiguration, s)
	}
}

// Validate reports settings no search can run with
func (c *Config) Validate() error {
	switch c.Combinator {
	case models.CombinatorAnd, models.CombinatorOr:
	default:
		return fmt.Errorf("%w: search operator must be AND or OR, got %q", ErrConfiguration, c.Combinator)
	}
	switch c.SortKey {
	case models.SortByVisits, models.SortByRecency:
	default:
		return fmt.Errorf("%w: unknown sort key %q", ErrConfiguration, c.SortKey)
	}
	if c.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrConfiguration)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrConfiguration)
	}
	if c.SourceTimeout <= 0 || c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrConfiguration)
	}
	if c.HomeDir == "" {
		return fmt.Errorf("%w: home directory is unknown", ErrConfiguration)
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
