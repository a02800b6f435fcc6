// Package engine wires the search pipeline: locate sources, extract them
// concurrently, merge, filter, rank and attach cached favicons.
package engine

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ilexum-group/webtrail/internal/aggregator"
	"github.com/ilexum-group/webtrail/internal/bookmarks"
	"github.com/ilexum-group/webtrail/internal/config"
	"github.com/ilexum-group/webtrail/internal/favicon"
	"github.com/ilexum-group/webtrail/internal/query"
	"github.com/ilexum-group/webtrail/internal/records"
	"github.com/ilexum-group/webtrail/internal/snapshot"
	"github.com/ilexum-group/webtrail/internal/sources"
	"github.com/ilexum-group/webtrail/internal/utils"
	"github.com/ilexum-group/webtrail/pkg/models"
)

// Notice is an informational outcome shown in place of results
type Notice string

const (
	// NoticeNone means Records holds the answer
	NoticeNone Notice = ""

	// NoticeConfigurationError means the configuration cannot produce a search
	NoticeConfigurationError Notice = "configuration_error"

	// NoticeNothingAvailable means no enabled source exists on this machine
	NoticeNothingAvailable Notice = "nothing_available"
)

// Result is the outcome of one search
type Result struct {
	Query    string
	Records  []models.Record
	Icons    map[string]string // url -> cached icon path
	Notice   Notice
	Message  string
	Reports  []aggregator.Report
	Favicons favicon.WarmReport
}

// Engine runs searches against one configuration
type Engine struct {
	cfg        *config.Config
	registry   []models.SourceDescriptor
	fs         sources.FileAccessor
	httpClient *http.Client

	locator    *sources.Locator
	aggregator *aggregator.Aggregator
	icons      *favicon.Cache
}

// Option customizes an Engine
type Option func(*Engine)

// WithRegistry replaces the built-in source registry
func WithRegistry(registry []models.SourceDescriptor) Option {
	return func(e *Engine) { e.registry = registry }
}

// WithFileAccessor replaces host filesystem access for source stores
func WithFileAccessor(fs sources.FileAccessor) Option {
	return func(e *Engine) { e.fs = fs }
}

// WithHTTPClient sets the client used to fetch favicons
func WithHTTPClient(client *http.Client) Option {
	return func(e *Engine) { e.httpClient = client }
}

// New creates an Engine with its dependencies built from cfg. A favicon
// cache that cannot be created only disables icons.
func New(cfg *config.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:        cfg,
		registry:   sources.DefaultRegistry(),
		fs:         sources.HostFS(),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.locator = sources.NewLocator(e.fs)
	e.aggregator = aggregator.New(
		snapshot.NewReader(e.fs, cfg.TempDir, cfg.HistoryLimit),
		bookmarks.NewExtractor(e.fs),
		cfg.Workers,
		cfg.SourceTimeout,
	)

	if cfg.Favicons {
		icons, err := favicon.New(cfg.CacheDir,
			favicon.WithHTTPClient(e.httpClient),
			favicon.WithEndpoint(cfg.FaviconEndpoint),
			favicon.WithMaxAge(cfg.FaviconMaxAge()),
			favicon.WithWorkers(cfg.Workers),
			favicon.WithTimeout(cfg.FetchTimeout),
			favicon.WithRateLimit(cfg.FaviconRate),
		)
		if err != nil {
			utils.LogWarn("Favicons disabled", map[string]string{"error": err.Error()})
		} else {
			e.icons = icons
		}
	}

	return e
}

// Search answers rawQuery. Source and favicon failures reduce the result
// but never fail it; the returned error is only the caller's ctx error.
func (e *Engine) Search(ctx context.Context, rawQuery string) (Result, error) {
	res := Result{Query: rawQuery, Records: []models.Record{}, Icons: map[string]string{}}

	if len(e.cfg.Sources) == 0 {
		res.Notice = NoticeConfigurationError
		res.Message = "No sources enabled"
		utils.LogWarn("Search skipped", map[string]string{"reason": res.Message})
		return res, nil
	}

	located := e.locator.Locate(e.registry, e.cfg.Sources, e.cfg.HomeDir)
	if len(located) == 0 {
		res.Notice = NoticeNothingAvailable
		res.Message = "None of the enabled sources exist"
		utils.LogWarn("Search skipped", map[string]string{"reason": res.Message})
		return res, nil
	}

	tuples, reports := e.aggregator.Aggregate(ctx, located)
	res.Reports = reports
	if err := ctx.Err(); err != nil {
		return res, err
	}

	merged := records.NormalizeAndDedupe(tuples, e.cfg.IgnoredDomains)
	spec := query.Parse(rawQuery, e.cfg.Combinator)
	matched := query.Filter(merged, spec)
	res.Records = records.Rank(matched, e.cfg.SortKey, e.cfg.Limit)

	utils.LogInfo("Search completed", map[string]string{
		"terms":    strconv.Itoa(len(spec.Terms)),
		"operator": string(spec.Combinator),
		"merged":   strconv.Itoa(len(merged)),
		"matched":  strconv.Itoa(len(matched)),
		"returned": strconv.Itoa(len(res.Records)),
	})

	if e.icons != nil && len(res.Records) > 0 {
		urls := make([]string, len(res.Records))
		for i, r := range res.Records {
			urls[i] = r.URL
		}
		res.Favicons = e.icons.Warm(ctx, urls)
		for _, u := range urls {
			if path, ok := e.icons.Lookup(u); ok {
				res.Icons[u] = path
			}
		}
	}

	return res, nil
}
