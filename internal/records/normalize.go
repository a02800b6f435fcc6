// Package records merges extracted tuples into the normalized record set and
// ranks it for presentation.
package records

import (
	"net/url"
	"sort"
	"strings"

	"github.com/ilexum-group/webtrail/pkg/models"
)

// NormalizeAndDedupe converts raw tuples into records. Tuples are first
// re-sorted by source registration order, so the record kept for a
// duplicated URL is the one from the earliest registered source no matter
// which worker finished first.
func NormalizeAndDedupe(tuples []models.Tuple, ignoredDomains []string) []models.Record {
	ordered := make([]models.Tuple, len(tuples))
	copy(ordered, tuples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	seen := make(map[string]struct{}, len(ordered))
	out := make([]models.Record, 0, len(ordered))
	for _, t := range ordered {
		rawURL := strings.TrimSpace(t.URL)
		if rawURL == "" {
			continue
		}
		host := Host(rawURL)
		if ignored(host, ignoredDomains) {
			continue
		}
		if _, dup := seen[rawURL]; dup {
			continue
		}
		seen[rawURL] = struct{}{}
		out = append(out, toRecord(t, rawURL, host))
	}
	return out
}

func toRecord(t models.Tuple, rawURL, host string) models.Record {
	r := models.Record{
		Title:      strings.TrimSpace(t.Title),
		URL:        rawURL,
		VisitCount: max(t.VisitCount, 0),
		FolderPath: t.FolderPath,
		SourceID:   t.SourceID,
	}
	if r.Title == "" {
		r.Title = host
	}
	if r.Title == "" {
		r.Title = rawURL
	}
	if r.FolderPath == "" {
		r.FolderPath = models.RootFolder
	}
	if t.HasLastVisit {
		v := t.LastVisit
		r.LastVisit = &v
	}
	return r
}

// ignored matches hosts by plain substring, case as configured
func ignored(host string, domains []string) bool {
	if host == "" {
		return false
	}
	for _, d := range domains {
		if d != "" && strings.Contains(host, d) {
			return true
		}
	}
	return false
}

// Host returns the host portion of rawURL without any port, or "" when the
// URL has none (file:, javascript: and similar).
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
