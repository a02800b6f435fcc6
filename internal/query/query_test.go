package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ilexum-group/webtrail/pkg/models"
)

var docs = []models.Record{
	{Title: "Go Docs", URL: "https://go.dev", FolderPath: "Root"},
	{Title: "Rust Docs", URL: "https://rust-lang.org", FolderPath: "Work > Lang"},
}

func titles(rs []models.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Title
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		def  models.Combinator
		want models.QuerySpec
	}{
		{"and", "go & docs", models.CombinatorOr, models.QuerySpec{Terms: []string{"go", "docs"}, Combinator: models.CombinatorAnd}},
		{"or", "go | rust", models.CombinatorAnd, models.QuerySpec{Terms: []string{"go", "rust"}, Combinator: models.CombinatorOr}},
		{"and wins over or", "a | b & c", models.CombinatorOr, models.QuerySpec{Terms: []string{"a | b", "c"}, Combinator: models.CombinatorAnd}},
		{"whitespace uses default and", "go  docs", models.CombinatorAnd, models.QuerySpec{Terms: []string{"go", "docs"}, Combinator: models.CombinatorAnd}},
		{"whitespace uses default or", "go docs", models.CombinatorOr, models.QuerySpec{Terms: []string{"go", "docs"}, Combinator: models.CombinatorOr}},
		{"empty pieces dropped", " & go &  ", models.CombinatorOr, models.QuerySpec{Terms: []string{"go"}, Combinator: models.CombinatorAnd}},
		{"empty", "", models.CombinatorAnd, models.QuerySpec{Terms: []string{}, Combinator: models.CombinatorAnd}},
		{"unknown default", "x", "", models.QuerySpec{Terms: []string{"x"}, Combinator: models.CombinatorAnd}},
		{"nfc", "cafe\u0301", models.CombinatorAnd, models.QuerySpec{Terms: []string{"caf\u00e9"}, Combinator: models.CombinatorAnd}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Parse(tt.raw, tt.def)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestFilterCombinators(t *testing.T) {
	assert.Equal(t, []string{"Go Docs"}, titles(Filter(docs, Parse("go & docs", models.CombinatorOr))))
	assert.Equal(t, []string{"Go Docs", "Rust Docs"}, titles(Filter(docs, Parse("go | rust", models.CombinatorAnd))))
	assert.Equal(t, []string{"Go Docs", "Rust Docs"}, titles(Filter(docs, Parse("docs", models.CombinatorAnd))))
	assert.Empty(t, Filter(docs, Parse("go rust", models.CombinatorAnd)))
}

func TestFilterEmptyQueryReturnsAllInOrder(t *testing.T) {
	assert.Equal(t, []string{"Go Docs", "Rust Docs"}, titles(Filter(docs, Parse("   ", models.CombinatorAnd))))
}

func TestFilterFields(t *testing.T) {
	withSource := []models.Record{{Title: "x", URL: "https://x", FolderPath: "Root", SourceID: "firefox"}}

	assert.Equal(t, []string{"Rust Docs"}, titles(Filter(docs, Parse("LANG", models.CombinatorAnd))), "folder path and case")
	assert.Equal(t, []string{"Go Docs"}, titles(Filter(docs, Parse("go.dev", models.CombinatorAnd))), "url")
	assert.Empty(t, Filter(withSource, Parse("firefox", models.CombinatorAnd)), "source id is never searched")
}

func TestFilterUnicodeFolding(t *testing.T) {
	rs := []models.Record{{Title: "Caf\u00e9 Menu", URL: "https://cafe.example"}}
	assert.Len(t, Filter(rs, Parse("CAFE\u0301", models.CombinatorAnd)), 1)
}
