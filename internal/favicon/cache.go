// Package favicon keeps one icon file per domain in a cache directory. It is
// the only writer of that directory. Entries expire lazily: an entry is
// checked for age only when its domain is about to be warmed again.
package favicon

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ilexum-group/webtrail/internal/records"
	"github.com/ilexum-group/webtrail/pkg/models"
)

const (
	// DefaultEndpoint is the icon service; %s is replaced by the domain
	DefaultEndpoint = "https://www.google.com/s2/favicons?domain=%s&sz=128"

	// DefaultMaxAge is the age after which a cached icon is fetched again
	DefaultMaxAge = 60 * 24 * time.Hour

	// DefaultWorkers caps concurrent fetches
	DefaultWorkers = 8

	// DefaultTimeout bounds one fetch
	DefaultTimeout = 5 * time.Second

	iconExt = ".png"
)

// Cache is a directory of <domain>.png files
type Cache struct {
	dir      string
	client   *http.Client
	endpoint string
	maxAge   time.Duration
	workers  int
	timeout  time.Duration
	limiter  *rate.Limiter
	now      func() time.Time
}

// Option configures a Cache
type Option func(*Cache)

// WithHTTPClient sets the client used for fetches
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) { c.client = client }
}

// WithEndpoint sets the fetch URL template; %s receives the domain
func WithEndpoint(tmpl string) Option {
	return func(c *Cache) { c.endpoint = tmpl }
}

// WithMaxAge sets the eviction age. Zero or less disables eviction.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) { c.maxAge = d }
}

// WithWorkers sets the number of concurrent fetches
func WithWorkers(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithTimeout bounds each fetch
func WithTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit throttles fetches to perSecond requests. Zero or less means
// unlimited.
func WithRateLimit(perSecond float64) Option {
	return func(c *Cache) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(1, int(perSecond)))
	}
}

// WithClock replaces time.Now for age checks
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates the cache directory if needed and returns a Cache over it
func New(dir string, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("favicon cache directory is empty")
	}
	c := &Cache{
		dir:      dir,
		client:   http.DefaultClient,
		endpoint: DefaultEndpoint,
		maxAge:   DefaultMaxAge,
		workers:  DefaultWorkers,
		timeout:  DefaultTimeout,
		limiter:  rate.NewLimiter(rate.Inf, 0),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create favicon cache: %w", err)
	}
	return c, nil
}

// Dir returns the cache directory
func (c *Cache) Dir() string { return c.dir }

// Path returns the file an icon for domain is stored in
func (c *Cache) Path(domain string) string {
	return filepath.Join(c.dir, domain+iconExt)
}

// Lookup returns the icon path for rawURL's domain. A zero-length file is
// treated as corrupt: it is removed and reported absent.
func (c *Cache) Lookup(rawURL string) (string, bool) {
	domain, ok := domainOf(rawURL)
	if !ok {
		return "", false
	}
	path := c.Path(domain)
	if !c.present(path) {
		return "", false
	}
	return path, true
}

// Entry describes the cached icon for domain, if any
func (c *Cache) Entry(domain string) (models.CacheEntry, bool) {
	if !validDomain(domain) {
		return models.CacheEntry{}, false
	}
	path := c.Path(domain)
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return models.CacheEntry{}, false
	}
	return models.CacheEntry{Domain: domain, Path: path, CreatedAt: createdAt(info)}, true
}

// Evict removes domain's icon when it was created more than maxAge ago and
// reports whether it did.
func (c *Cache) Evict(domain string, maxAge time.Duration) bool {
	if maxAge <= 0 || !validDomain(domain) {
		return false
	}
	path := c.Path(domain)
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if c.now().Sub(createdAt(info)) <= maxAge {
		return false
	}
	return removeFile(path) == nil
}

// present reports whether path holds a non-empty icon, removing it when it
// is empty.
func (c *Cache) present(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.Size() == 0 {
		_ = removeFile(path)
		return false
	}
	return true
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// domainOf returns the cache key for rawURL
func domainOf(rawURL string) (string, bool) {
	domain := records.Host(rawURL)
	return domain, validDomain(domain)
}

func validDomain(domain string) bool {
	return domain != "" && domain != "." && domain != ".." &&
		!strings.ContainsAny(domain, `/\`)
}
