package favicon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/natefinch/atomic"

	"github.com/ilexum-group/webtrail/internal/utils"
	"github.com/ilexum-group/webtrail/internal/workpool"
)

// ErrFetchFailed is returned for an icon that could not be downloaded.
// The domain is left absent and retried on a later warm.
var ErrFetchFailed = errors.New("favicon fetch failed")

const (
	userAgent    = "Mozilla/5.0"
	maxIconBytes = 1 << 20
)

// WarmReport counts what one Warm call did per distinct domain
type WarmReport struct {
	Fetched int
	Skipped int
	Failed  int
}

// Warm makes sure every domain among urls has a cached icon. Expired icons
// are evicted first; domains with a usable icon are skipped, so a second
// Warm over the same urls performs no fetches. Failures are logged and
// counted, never returned.
func (c *Cache) Warm(ctx context.Context, urls []string) WarmReport {
	var report WarmReport

	seen := make(map[string]struct{})
	pending := make([]string, 0)
	for _, u := range urls {
		domain, ok := domainOf(u)
		if !ok {
			continue
		}
		if _, dup := seen[domain]; dup {
			continue
		}
		seen[domain] = struct{}{}

		if c.Evict(domain, c.maxAge) {
			utils.LogDebug("Favicon expired", map[string]string{"domain": domain})
		}
		if c.present(c.Path(domain)) {
			report.Skipped++
			continue
		}
		pending = append(pending, domain)
	}

	tasks := make([]workpool.Task[struct{}], len(pending))
	for i, domain := range pending {
		domain := domain
		tasks[i] = func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.fetch(ctx, domain)
		}
	}

	for i, r := range workpool.Run(ctx, min(len(tasks), c.workers), tasks) {
		if r.Err != nil {
			report.Failed++
			utils.LogWarn("Favicon not cached", map[string]string{
				"domain": pending[i],
				"error":  r.Err.Error(),
			})
			continue
		}
		report.Fetched++
	}

	if len(pending) > 0 {
		utils.LogInfo("Favicons warmed", map[string]string{
			"fetched": strconv.Itoa(report.Fetched),
			"skipped": strconv.Itoa(report.Skipped),
			"failed":  strconv.Itoa(report.Failed),
		})
	}
	return report
}

// fetch downloads one icon. Whatever happens, a failed domain has no file
// afterwards.
func (c *Cache) fetch(ctx context.Context, domain string) (err error) {
	path := c.Path(domain)
	defer func() {
		if err != nil {
			_ = removeFile(path)
			err = fmt.Errorf("%w: %s: %v", ErrFetchFailed, domain, err)
		}
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(c.endpoint, url.QueryEscape(domain)), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return errors.New("empty body")
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write icon: %w", err)
	}
	// atomic.WriteFile leaves the temp file's 0600 mode on new files
	if err := os.Chmod(path, 0o644); err != nil {
		return fmt.Errorf("chmod icon: %w", err)
	}
	return nil
}
