// Package models defines data structures shared by the webtrail pipeline
package models

import "time"

// FormatKind identifies how a source store is laid out on disk
type FormatKind string

const (
	// FormatHistoryDB is a relational browser history database
	FormatHistoryDB FormatKind = "history-db"

	// FormatBookmarksJSON is a nested JSON bookmark tree (Chromium family)
	FormatBookmarksJSON FormatKind = "bookmarks-tree-json"

	// FormatBookmarksPlist is a nested plist bookmark tree (Safari)
	FormatBookmarksPlist FormatKind = "bookmarks-tree-plist"
)

// Schema identifies the relational dialect of a history database
type Schema string

const (
	// SchemaChromium joins urls with visits
	SchemaChromium Schema = "chromium"

	// SchemaFirefox joins moz_places with moz_historyvisits
	SchemaFirefox Schema = "firefox"

	// SchemaSafari joins history_items with history_visits
	SchemaSafari Schema = "safari"
)

// ProfileScan describes a bounded search for a data file inside a
// directory of browser profiles.
type ProfileScan struct {
	Basename     string `json:"basename" yaml:"basename"`
	PreferSuffix string `json:"prefer_suffix" yaml:"prefer_suffix"`
	MaxDepth     int    `json:"max_depth" yaml:"max_depth"`
}

// SourceDescriptor maps a logical source to a path template and format
type SourceDescriptor struct {
	ID           string       `json:"id"`
	PathTemplate string       `json:"path_template"` // relative to the home directory
	Format       FormatKind   `json:"format"`
	Schema       Schema       `json:"schema,omitempty"`
	ProfileScan  *ProfileScan `json:"profile_scan,omitempty"`
}

// ResolvedSource is a descriptor whose data file was found on disk
type ResolvedSource struct {
	ID     string     `json:"id"`
	Path   string     `json:"path"`
	Format FormatKind `json:"format"`
	Schema Schema     `json:"schema,omitempty"`
	Order  int        `json:"order"` // registration order of the descriptor
}

// Tuple is the raw output of a single extractor row
type Tuple struct {
	Title        string
	URL          string
	VisitCount   int
	FolderPath   string
	LastVisit    int64 // Unix seconds, meaningful only when HasLastVisit
	HasLastVisit bool
	SourceID     string
	Order        int
}

// RootFolder is the folder path of records without bookmark lineage
const RootFolder = "Root"

// Record is the normalized entry served to callers
type Record struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	VisitCount int    `json:"visit_count"`
	FolderPath string `json:"folder_path"`
	LastVisit  *int64 `json:"last_visit,omitempty"` // Unix seconds
	SourceID   string `json:"source_id"`
}

// IsBookmark reports whether the record came from a bookmark tree
func (r Record) IsBookmark() bool {
	return r.LastVisit == nil && r.VisitCount == 0
}

// Combinator is the boolean join applied across query terms
type Combinator string

const (
	// CombinatorAnd requires every term to match
	CombinatorAnd Combinator = "AND"

	// CombinatorOr requires at least one term to match
	CombinatorOr Combinator = "OR"
)

// QuerySpec is a parsed query string
type QuerySpec struct {
	Terms      []string   `json:"terms"`
	Combinator Combinator `json:"combinator"`
}

// SortKey selects the field records are ranked by
type SortKey string

const (
	// SortByVisits ranks by visit count
	SortByVisits SortKey = "visit_count"

	// SortByRecency ranks by last visit time
	SortByRecency SortKey = "last_visit"
)

// CacheEntry describes one cached favicon file
type CacheEntry struct {
	Domain    string    `json:"domain"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
