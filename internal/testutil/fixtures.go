// Package testutil builds browser store fixtures for tests: SQLite history
// databases in the three supported schemas and bookmark files.
package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"howett.net/plist"
	_ "modernc.org/sqlite" // fixture databases are written with the same driver that reads them
)

// HistoryRow is one visited URL in a fixture database
type HistoryRow struct {
	URL       string
	Title     string
	Visits    int
	LastVisit time.Time
}

const (
	chromeEpochDiff = 11644473600000000
	coreDataEpoch   = 978307200
)

// WriteFile writes data to path, creating parent directories
func WriteFile(tb testing.TB, path string, data []byte) {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
}

// WritePlist encodes v as an XML plist at path
func WritePlist(tb testing.TB, path string, v any) {
	tb.Helper()
	data, err := plist.MarshalIndent(v, plist.XMLFormat, "\t")
	if err != nil {
		tb.Fatalf("marshal plist: %v", err)
	}
	WriteFile(tb, path, data)
}

func exec(tb testing.TB, path string, stmts []string, inserts func(db *sql.DB) error) {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir: %v", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		tb.Fatalf("open fixture db: %v", err)
	}
	defer func() { _ = db.Close() }()

	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			tb.Fatalf("fixture schema: %v", err)
		}
	}
	if err := inserts(db); err != nil {
		tb.Fatalf("fixture rows: %v", err)
	}
}

// WriteChromiumHistory creates a Chromium-family History database
func WriteChromiumHistory(tb testing.TB, path string, rows []HistoryRow) {
	tb.Helper()
	exec(tb, path, []string{
		`CREATE TABLE urls (id INTEGER PRIMARY KEY, url LONGVARCHAR, title LONGVARCHAR,
			visit_count INTEGER DEFAULT 0 NOT NULL, typed_count INTEGER DEFAULT 0 NOT NULL,
			last_visit_time INTEGER NOT NULL, hidden INTEGER DEFAULT 0 NOT NULL)`,
		`CREATE TABLE visits (id INTEGER PRIMARY KEY, url INTEGER NOT NULL, visit_time INTEGER NOT NULL)`,
	}, func(db *sql.DB) error {
		for i, r := range rows {
			ts := r.LastVisit.Unix()*1000000 + chromeEpochDiff
			if _, err := db.Exec(`INSERT INTO urls (id, url, title, visit_count, last_visit_time) VALUES (?, ?, ?, ?, ?)`,
				i+1, r.URL, r.Title, r.Visits, ts); err != nil {
				return err
			}
			if _, err := db.Exec(`INSERT INTO visits (url, visit_time) VALUES (?, ?)`, i+1, ts); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteFirefoxHistory creates a Firefox places.sqlite database
func WriteFirefoxHistory(tb testing.TB, path string, rows []HistoryRow) {
	tb.Helper()
	exec(tb, path, []string{
		`CREATE TABLE moz_places (id INTEGER PRIMARY KEY, url LONGVARCHAR, title LONGVARCHAR,
			visit_count INTEGER DEFAULT 0, last_visit_date INTEGER)`,
		`CREATE TABLE moz_historyvisits (id INTEGER PRIMARY KEY, place_id INTEGER, visit_date INTEGER)`,
	}, func(db *sql.DB) error {
		for i, r := range rows {
			ts := r.LastVisit.Unix() * 1000000
			if _, err := db.Exec(`INSERT INTO moz_places (id, url, title, visit_count, last_visit_date) VALUES (?, ?, ?, ?, ?)`,
				i+1, r.URL, r.Title, r.Visits, ts); err != nil {
				return err
			}
			if _, err := db.Exec(`INSERT INTO moz_historyvisits (place_id, visit_date) VALUES (?, ?)`, i+1, ts); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSafariHistory creates a Safari History.db database
func WriteSafariHistory(tb testing.TB, path string, rows []HistoryRow) {
	tb.Helper()
	exec(tb, path, []string{
		`CREATE TABLE history_items (id INTEGER PRIMARY KEY, url TEXT NOT NULL UNIQUE, visit_count INTEGER NOT NULL)`,
		`CREATE TABLE history_visits (id INTEGER PRIMARY KEY, history_item INTEGER NOT NULL, visit_time REAL NOT NULL, title TEXT)`,
	}, func(db *sql.DB) error {
		for i, r := range rows {
			ts := float64(r.LastVisit.Unix()-coreDataEpoch) + 0.5
			if _, err := db.Exec(`INSERT INTO history_items (id, url, visit_count) VALUES (?, ?, ?)`,
				i+1, r.URL, r.Visits); err != nil {
				return err
			}
			if _, err := db.Exec(`INSERT INTO history_visits (history_item, visit_time, title) VALUES (?, ?, ?)`,
				i+1, ts, r.Title); err != nil {
				return err
			}
		}
		return nil
	})
}

// DirEntries lists the names in dir, failing the test on error
func DirEntries(tb testing.TB, dir string) []string {
	tb.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		tb.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
