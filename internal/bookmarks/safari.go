package bookmarks

import (
	"fmt"

	"howett.net/plist"
)

// ParseSafari decodes a Safari Bookmarks.plist (binary or XML) into a tree
func ParseSafari(data []byte) (Folder, error) {
	var raw map[string]any
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return Folder{}, fmt.Errorf("parse bookmarks plist: %w", err)
	}

	root := Folder{}
	children, _ := raw["Children"].([]any)
	for _, c := range children {
		if n, ok := safariNode(c); ok {
			root.Children = append(root.Children, n)
		}
	}
	return root, nil
}

// safariNode converts a plist dictionary. Containers carry a Children list
// (or the WebBookmarkTypeList tag); leaves carry URLString with the title
// in URIDictionary.
func safariNode(raw any) (Node, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}

	children, isList := m["Children"].([]any)
	if isList || m["WebBookmarkType"] == "WebBookmarkTypeList" {
		title, _ := m["Title"].(string)
		f := Folder{Name: title}
		for _, c := range children {
			if n, ok := safariNode(c); ok {
				f.Children = append(f.Children, n)
			}
		}
		return f, true
	}

	url, ok := m["URLString"].(string)
	if !ok {
		return nil, false
	}
	title := ""
	if dict, ok := m["URIDictionary"].(map[string]any); ok {
		title, _ = dict["title"].(string)
	}
	if title == "" {
		title, _ = m["Title"].(string)
	}
	return Leaf{Title: title, URL: url}, true
}
