package sources

import (
	"path/filepath"
	"strings"

	"github.com/ilexum-group/webtrail/internal/utils"
	"github.com/ilexum-group/webtrail/pkg/models"
)

// Locator resolves source descriptors to data files that exist right now
type Locator struct {
	fs FileAccessor
}

// NewLocator creates a Locator. A nil accessor means the host filesystem.
func NewLocator(fs FileAccessor) *Locator {
	if fs == nil {
		fs = HostFS()
	}
	return &Locator{fs: fs}
}

// Locate expands every enabled descriptor relative to homeDir and returns
// the sources whose data file exists and is non-empty. The result follows
// registry order regardless of the order of enabledIDs. Missing files are
// logged, never returned as errors.
func (l *Locator) Locate(descriptors []models.SourceDescriptor, enabledIDs []string, homeDir string) []models.ResolvedSource {
	enabled := make(map[string]bool, len(enabledIDs))
	for _, id := range enabledIDs {
		enabled[id] = true
	}

	for id := range enabled {
		if _, ok := Lookup(descriptors, id); !ok {
			utils.LogWarn("Unknown source ignored", map[string]string{"source": id})
		}
	}

	resolved := make([]models.ResolvedSource, 0, len(enabled))
	for order, d := range descriptors {
		if !enabled[d.ID] {
			continue
		}

		path := filepath.Join(homeDir, filepath.FromSlash(d.PathTemplate))
		if d.ProfileScan != nil {
			found, ok := l.scanProfiles(path, *d.ProfileScan)
			if !ok {
				utils.LogDebug("No matching profile found", map[string]string{"source": d.ID, "dir": path})
				continue
			}
			path = found
		}

		if !l.usable(path) {
			utils.LogDebug("Source not found", map[string]string{"source": d.ID, "path": path})
			continue
		}

		utils.LogDebug("Source found", map[string]string{"source": d.ID, "path": path})
		resolved = append(resolved, models.ResolvedSource{
			ID:     d.ID,
			Path:   path,
			Format: d.Format,
			Schema: d.Schema,
			Order:  order,
		})
	}

	return resolved
}

func (l *Locator) usable(path string) bool {
	info, err := l.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// scanProfiles searches root breadth-first, at most scan.MaxDepth levels
// deep, for a file named scan.Basename inside a directory whose name ends
// with scan.PreferSuffix.
func (l *Locator) scanProfiles(root string, scan models.ProfileScan) (string, bool) {
	depth := scan.MaxDepth
	if depth <= 0 {
		depth = 1
	}

	level := []string{root}
	for d := 0; d < depth && len(level) > 0; d++ {
		var next []string
		for _, dir := range level {
			entries, err := l.fs.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, e := range entries {
				p := filepath.Join(dir, e.Name())
				if e.IsDir() {
					next = append(next, p)
					continue
				}
				if e.Name() == scan.Basename && strings.HasSuffix(filepath.Base(dir), scan.PreferSuffix) && l.usable(p) {
					return p, true
				}
			}
		}
		level = next
	}

	return "", false
}
