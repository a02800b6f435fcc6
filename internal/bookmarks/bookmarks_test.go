package bookmarks

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ilexum-group/webtrail/internal/sources"
	"github.com/ilexum-group/webtrail/internal/testutil"
	"github.com/ilexum-group/webtrail/pkg/models"
)

const chromiumFixture = "\xef\xbb\xbf" + `{
  "version": 1,
  "roots": {
    "other": {"type": "folder", "name": "Other Bookmarks", "children": [
      {"type": "url", "name": "Rust", "url": "https://rust-lang.org"}
    ]},
    "bookmark_bar": {"type": "folder", "name": "", "children": [
      {"type": "url", "name": "Go", "url": "https://go.dev"},
      {"type": "folder", "name": "Work", "children": [
        {"type": "folder", "name": "Projects", "children": [
          {"type": "url", "name": "Tracker", "url": "https://tracker.example.com"}
        ]},
        {"type": "folder", "name": "Broken", "children": "not-a-list"},
        {"type": "url", "name": "Mail", "url": "https://mail.example.com"}
      ]},
      {"type": "url", "name": "No URL"},
      {"type": "separator"}
    ]}
  }
}`

func TestExtractChromium(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Bookmarks")
	testutil.WriteFile(t, path, []byte(chromiumFixture))

	src := models.ResolvedSource{ID: "chrome_bookmarks", Path: path, Format: models.FormatBookmarksJSON, Order: 4}
	got, err := NewExtractor(nil).Extract(src)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []models.Tuple{
		{Title: "Go", URL: "https://go.dev", FolderPath: "Folder 1", SourceID: "chrome_bookmarks", Order: 4},
		{Title: "Tracker", URL: "https://tracker.example.com", FolderPath: "Folder 1 > Work > Projects", SourceID: "chrome_bookmarks", Order: 4},
		{Title: "Mail", URL: "https://mail.example.com", FolderPath: "Folder 1 > Work", SourceID: "chrome_bookmarks", Order: 4},
		{Title: "Rust", URL: "https://rust-lang.org", FolderPath: "Other Bookmarks", SourceID: "chrome_bookmarks", Order: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func safariFixture() map[string]any {
	return map[string]any{
		"WebBookmarkType": "WebBookmarkTypeList",
		"Title":           "",
		"Children": []any{
			map[string]any{
				"WebBookmarkType": "WebBookmarkTypeLeaf",
				"URLString":       "https://apple.com",
				"URIDictionary":   map[string]any{"title": "Apple"},
			},
			map[string]any{
				"WebBookmarkType": "WebBookmarkTypeList",
				"Title":           "Work",
				"Children": []any{
					map[string]any{
						"WebBookmarkType": "WebBookmarkTypeList",
						"Title":           "Projects",
						"Children": []any{
							map[string]any{
								"WebBookmarkType": "WebBookmarkTypeLeaf",
								"URLString":       "https://tracker.example.com",
								"URIDictionary":   map[string]any{"title": "Tracker"},
							},
						},
					},
				},
			},
			map[string]any{
				"WebBookmarkType": "WebBookmarkTypeList",
				"Title":           "Empty",
			},
		},
	}
}

func TestExtractSafari(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Bookmarks.plist")
	testutil.WritePlist(t, path, safariFixture())

	src := models.ResolvedSource{ID: "safari_bookmarks", Path: path, Format: models.FormatBookmarksPlist}
	got, err := NewExtractor(nil).Extract(src)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []models.Tuple{
		{Title: "Apple", URL: "https://apple.com", FolderPath: models.RootFolder, SourceID: "safari_bookmarks"},
		{Title: "Tracker", URL: "https://tracker.example.com", FolderPath: "Work > Projects", SourceID: "safari_bookmarks"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkDoesNotShareLineage(t *testing.T) {
	// Siblings below a deep folder must not see each other's segments.
	root := Folder{Children: []Node{
		Folder{Name: "A", Children: []Node{
			Folder{Name: "B", Children: []Node{Leaf{Title: "x", URL: "https://x"}}},
			Folder{Name: "C", Children: []Node{Leaf{Title: "y", URL: "https://y"}}},
			Leaf{Title: "z", URL: "https://z"},
		}},
	}}

	got := Walk(root, "s")
	paths := []string{got[0].FolderPath, got[1].FolderPath, got[2].FolderPath}
	want := []string{"A > B", "A > C", "A"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("lineage mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "Bookmarks")
	testutil.WriteFile(t, bad, []byte("{not json"))

	tests := []struct {
		name string
		src  models.ResolvedSource
	}{
		{"missing file", models.ResolvedSource{ID: "a", Path: filepath.Join(dir, "nope"), Format: models.FormatBookmarksJSON}},
		{"bad json", models.ResolvedSource{ID: "b", Path: bad, Format: models.FormatBookmarksJSON}},
		{"bad plist", models.ResolvedSource{ID: "c", Path: bad, Format: models.FormatBookmarksPlist}},
		{"wrong format", models.ResolvedSource{ID: "d", Path: bad, Format: models.FormatHistoryDB}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor(nil).Extract(tt.src)
			if !errors.Is(err, sources.ErrSourceUnavailable) {
				t.Errorf("Expected ErrSourceUnavailable, got %v", err)
			}
		})
	}
}

func TestParseChromiumWithoutRoots(t *testing.T) {
	root, err := ParseChromium([]byte(`{"version": 1}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(Walk(root, "s")) != 0 {
		t.Error("Expected no tuples")
	}
}
