package render

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilexum-group/webtrail/internal/engine"
	"github.com/ilexum-group/webtrail/pkg/models"
)

func ptr(v int64) *int64 { return &v }

func decode(t *testing.T, res engine.Result) []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, res, "2006-01-02"))

	var doc struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	return doc.Items
}

func TestJSONRecords(t *testing.T) {
	visit := time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local).Unix()
	res := engine.Result{
		Query: "go",
		Records: []models.Record{
			{Title: "Go Docs", URL: "https://go.dev/doc", VisitCount: 12, FolderPath: "Root", LastVisit: ptr(visit)},
			{Title: "Go Spec", URL: "https://go.dev/ref/spec", FolderPath: "Work > Go"},
		},
		Icons: map[string]string{"https://go.dev/doc": "/cache/go.dev.png"},
	}

	items := decode(t, res)

	require.Len(t, items, 2)
	assert.Equal(t, "Go Docs", items[0]["title"])
	assert.Equal(t, "(Visits: 12) https://go.dev/doc | 2024-03-09", items[0]["subtitle"])
	assert.Equal(t, "https://go.dev/doc", items[0]["arg"])
	assert.Equal(t, "https://go.dev/doc", items[0]["quicklookurl"])
	assert.Equal(t, map[string]any{"path": "/cache/go.dev.png"}, items[0]["icon"])
	assert.NotEmpty(t, items[0]["uid"])
	assert.NotContains(t, items[0], "valid")

	assert.Equal(t, "Work > Go | https://go.dev/ref/spec", items[1]["subtitle"])
	assert.NotContains(t, items[1], "icon")
	assert.NotEqual(t, items[0]["uid"], items[1]["uid"])
}

func TestJSONFallbackOnNoResults(t *testing.T) {
	items := decode(t, engine.Result{Query: "rust & async"})

	require.Len(t, items, 1)
	assert.Equal(t, "Nothing found!", items[0]["title"])
	assert.Equal(t, `Search "rust & async" in Google?`, items[0]["subtitle"])
	assert.Equal(t, "https://www.google.com/search?q=rust+%26+async", items[0]["arg"])
}

func TestJSONNotices(t *testing.T) {
	tests := []struct {
		notice engine.Notice
		hint   string
	}{
		{engine.NoticeConfigurationError, "Check the sources enabled in the configuration"},
		{engine.NoticeNothingAvailable, "Ensure a supported browser is installed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.notice), func(t *testing.T) {
			items := decode(t, engine.Result{Notice: tt.notice, Message: "msg"})
			require.Len(t, items, 1)
			assert.Equal(t, "msg", items[0]["title"])
			assert.Equal(t, tt.hint, items[0]["subtitle"])
			assert.Equal(t, false, items[0]["valid"])
		})
	}
}

func TestText(t *testing.T) {
	res := engine.Result{
		Query:   "go",
		Records: []models.Record{{Title: "Go Spec", URL: "https://go.dev/ref/spec", FolderPath: "Root"}},
	}
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, res, ""))
	assert.Equal(t, "Found 1 result for \"go\"\n\n1. Go Spec\n   Root | https://go.dev/ref/spec\n", buf.String())

	buf.Reset()
	require.NoError(t, Text(&buf, engine.Result{Query: "zig"}, ""))
	assert.Equal(t, "Nothing found!\n   Search \"zig\" in Google?\n", buf.String())
}

func TestLayout(t *testing.T) {
	tests := map[string]string{
		"":                  "2006-01-02 15:04",
		"02.01.2006":        "02.01.2006",
		"%d.%m.%Y %H:%M":    "02.01.2006 15:04",
		"%Y-%m-%d %I:%M %p": "2006-01-02 03:04 PM",
		"100%% %q":          "100% %q",
		"trailing %":        "trailing %",
	}
	for in, want := range tests {
		assert.Equal(t, want, Layout(in), in)
	}
}
