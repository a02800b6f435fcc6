// Package render turns a search result into the script filter payload read
// by the launcher, or into plain text for a terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ilexum-group/webtrail/internal/engine"
	"github.com/ilexum-group/webtrail/internal/utils"
	"github.com/ilexum-group/webtrail/pkg/models"
)

const webSearchURL = "https://www.google.com/search?q="

// Icon points at an image file shown next to an item
type Icon struct {
	Path string `json:"path"`
}

// Item is one script filter row
type Item struct {
	UID          string `json:"uid,omitempty"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Arg          string `json:"arg,omitempty"`
	QuickLookURL string `json:"quicklookurl,omitempty"`
	Icon         *Icon  `json:"icon,omitempty"`
	Valid        *bool  `json:"valid,omitempty"`
}

// Document is the script filter payload
type Document struct {
	Items []Item `json:"items"`
}

// Items builds the rows for res. dateFormat is a Go layout or a strftime
// pattern.
func Items(res engine.Result, dateFormat string) []Item {
	if res.Notice != engine.NoticeNone {
		return []Item{noticeItem(res)}
	}
	if len(res.Records) == 0 {
		return []Item{fallbackItem(res.Query)}
	}

	layout := Layout(dateFormat)
	items := make([]Item, 0, len(res.Records))
	for _, r := range res.Records {
		item := Item{
			// fresh uids keep the launcher from reordering ranked results
			UID:          utils.GenerateRandomID(),
			Title:        r.Title,
			Subtitle:     subtitle(r, layout),
			Arg:          r.URL,
			QuickLookURL: r.URL,
		}
		if path, ok := res.Icons[r.URL]; ok {
			item.Icon = &Icon{Path: path}
		}
		items = append(items, item)
	}
	return items
}

// JSON writes the script filter document for res to w
func JSON(w io.Writer, res engine.Result, dateFormat string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Items: Items(res, dateFormat)}); err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	return nil
}

// Text writes a numbered, human readable listing of res to w
func Text(w io.Writer, res engine.Result, dateFormat string) error {
	items := Items(res, dateFormat)
	if len(res.Records) == 0 {
		_, err := fmt.Fprintf(w, "%s\n   %s\n", items[0].Title, items[0].Subtitle)
		return err
	}

	word := "results"
	if len(items) == 1 {
		word = "result"
	}
	var b strings.Builder
	if res.Query != "" {
		fmt.Fprintf(&b, "Found %d %s for %q\n\n", len(items), word, res.Query)
	} else {
		fmt.Fprintf(&b, "Found %d %s\n\n", len(items), word)
	}
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, item.Title, item.Subtitle)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func subtitle(r models.Record, layout string) string {
	if r.IsBookmark() {
		return r.FolderPath + " | " + r.URL
	}
	s := "(Visits: " + strconv.Itoa(r.VisitCount) + ") " + r.URL
	if r.LastVisit != nil {
		s += " | " + time.Unix(*r.LastVisit, 0).Local().Format(layout)
	}
	return s
}

func noticeItem(res engine.Result) Item {
	hint := "Check the sources enabled in the configuration"
	if res.Notice == engine.NoticeNothingAvailable {
		hint = "Ensure a supported browser is installed"
	}
	title := res.Message
	if title == "" {
		title = string(res.Notice)
	}
	invalid := false
	return Item{Title: title, Subtitle: hint, Valid: &invalid}
}

func fallbackItem(query string) Item {
	return Item{
		Title:    "Nothing found!",
		Subtitle: fmt.Sprintf("Search %q in Google?", query),
		Arg:      webSearchURL + url.QueryEscape(query),
	}
}
