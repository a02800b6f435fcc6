package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilexum-group/webtrail/pkg/models"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := Load(envMap(map[string]string{"WEBTRAIL_HOME": "/home/test"}))
	require.NoError(t, err)

	assert.Equal(t, models.CombinatorAnd, cfg.Combinator)
	assert.Equal(t, models.SortByVisits, cfg.SortKey)
	assert.Equal(t, 30, cfg.Limit)
	assert.True(t, cfg.Favicons)
	assert.Equal(t, 60*24*time.Hour, cfg.FaviconMaxAge())
	assert.Equal(t, DefaultFaviconEndpoint, cfg.FaviconEndpoint)
	assert.Contains(t, cfg.Sources, "chrome")
}

func TestLoadConfigEnv(t *testing.T) {
	cfg, err := Load(envMap(map[string]string{
		"WEBTRAIL_HOME":           "/home/test",
		"sources":                 "brave, firefox ,,safari_bookmarks",
		"ignored_domains":         "localhost,example.org",
		"search_operator":         "or",
		"sort_by":                 "recent",
		"favicons":                "false",
		"WEBTRAIL_LIMIT":          "10",
		"WEBTRAIL_SOURCE_TIMEOUT": "750ms",
		"alfred_workflow_cache":   "/tmp/wf-cache",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"brave", "firefox", "safari_bookmarks"}, cfg.Sources)
	assert.Equal(t, []string{"localhost", "example.org"}, cfg.IgnoredDomains)
	assert.Equal(t, models.CombinatorOr, cfg.Combinator)
	assert.Equal(t, models.SortByRecency, cfg.SortKey)
	assert.False(t, cfg.Favicons)
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, 750*time.Millisecond, cfg.SourceTimeout)
	assert.Equal(t, "/tmp/wf-cache", cfg.CacheDir)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webtrail.yaml")
	content := `
sources: [vivaldi, vivaldi_bookmarks]
search_operator: OR
limit: 5
favicon_max_age_days: 7
fetch_timeout: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(envMap(map[string]string{
		"WEBTRAIL_CONFIG": path,
		"WEBTRAIL_HOME":   "/home/test",
		"WEBTRAIL_LIMIT":  "12", // env wins over file
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"vivaldi", "vivaldi_bookmarks"}, cfg.Sources)
	assert.Equal(t, models.CombinatorOr, cfg.Combinator)
	assert.Equal(t, 12, cfg.Limit)
	assert.Equal(t, 7*24*time.Hour, cfg.FaviconMaxAge())
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad operator", map[string]string{"search_operator": "XOR"}},
		{"bad sort", map[string]string{"sort_by": "alphabetical"}},
		{"bad limit", map[string]string{"WEBTRAIL_LIMIT": "many"}},
		{"negative limit", map[string]string{"WEBTRAIL_LIMIT": "-1"}},
		{"bad bool", map[string]string{"favicons": "sometimes"}},
		{"bad duration", map[string]string{"WEBTRAIL_FETCH_TIMEOUT": "soon"}},
		{"zero workers", map[string]string{"WEBTRAIL_WORKERS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.env["WEBTRAIL_HOME"] = "/home/test"
			_, err := Load(envMap(tt.env))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration), "expected ErrConfiguration, got %v", err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(envMap(map[string]string{"WEBTRAIL_CONFIG": filepath.Join(t.TempDir(), "missing.yaml")}))
	require.Error(t, err)
}
