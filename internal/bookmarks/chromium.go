package bookmarks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// rootOrder is the order Chromium shows its root folders in
var rootOrder = []string{"bookmark_bar", "other", "synced"}

// ParseChromium decodes a Chromium Bookmarks file into a tree
func ParseChromium(data []byte) (Folder, error) {
	var file struct {
		Roots map[string]json.RawMessage `json:"roots"`
	}
	if err := json.Unmarshal(bytes.TrimPrefix(data, utf8BOM), &file); err != nil {
		return Folder{}, fmt.Errorf("parse bookmarks json: %w", err)
	}

	keys := make([]string, 0, len(file.Roots))
	seen := make(map[string]bool, len(rootOrder))
	for _, k := range rootOrder {
		if _, ok := file.Roots[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0)
	for k := range file.Roots {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	root := Folder{}
	for _, k := range keys {
		var raw any
		if err := json.Unmarshal(file.Roots[k], &raw); err != nil {
			continue
		}
		if n, ok := chromiumNode(raw); ok {
			root.Children = append(root.Children, n)
		}
	}
	return root, nil
}

// chromiumNode converts a decoded JSON node. Nodes that are neither folders
// nor urls are skipped; a folder whose children are missing or not a list
// is treated as empty.
func chromiumNode(raw any) (Node, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	name, _ := m["name"].(string)

	switch m["type"] {
	case "url":
		url, _ := m["url"].(string)
		return Leaf{Title: name, URL: url}, true
	case "folder":
		f := Folder{Name: name}
		children, _ := m["children"].([]any)
		for _, c := range children {
			if n, ok := chromiumNode(c); ok {
				f.Children = append(f.Children, n)
			}
		}
		return f, true
	default:
		return nil, false
	}
}
