package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRecordJSONOmitsAbsentLastVisit(t *testing.T) {
	r := Record{Title: "Go", URL: "https://go.dev", FolderPath: RootFolder, SourceID: "chrome_bookmarks"}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Failed to marshal Record: %v", err)
	}
	if strings.Contains(string(b), "last_visit") {
		t.Errorf("Expected last_visit to be omitted, got %s", b)
	}
	if !r.IsBookmark() {
		t.Error("Record without visits should be a bookmark")
	}

	ts := int64(1700000000)
	r.LastVisit = &ts
	r.VisitCount = 3
	if r.IsBookmark() {
		t.Error("Record with visits should not be a bookmark")
	}
}
