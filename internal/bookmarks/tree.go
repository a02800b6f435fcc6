// Package bookmarks extracts records from nested bookmark trees: the
// Chromium JSON Bookmarks file and Safari's Bookmarks.plist.
package bookmarks

import (
	"fmt"
	"strings"

	"github.com/ilexum-group/webtrail/pkg/models"
)

// Node is either a Folder or a Leaf
type Node interface {
	node()
}

// Folder is a container of bookmark nodes
type Folder struct {
	Name     string
	Children []Node
}

// Leaf is a single bookmarked URL
type Leaf struct {
	Title string
	URL   string
}

func (Folder) node() {}
func (Leaf) node()   {}

// LineageSeparator joins folder names in a record's folder path
const LineageSeparator = " > "

// Walk flattens the children of root depth-first into tuples. root itself is
// the file's synthetic top level and does not contribute a lineage segment.
func Walk(root Folder, sourceID string) []models.Tuple {
	tuples := make([]models.Tuple, 0)
	walkChildren(root.Children, nil, sourceID, &tuples)
	return tuples
}

// walkChildren receives lineage by value; each folder appends to a fresh
// copy so siblings never observe each other's segments.
func walkChildren(children []Node, lineage []string, sourceID string, out *[]models.Tuple) {
	for i, child := range children {
		switch n := child.(type) {
		case Folder:
			name := strings.TrimSpace(n.Name)
			if name == "" {
				name = fmt.Sprintf("Folder %d", i+1)
			}
			next := make([]string, len(lineage), len(lineage)+1)
			copy(next, lineage)
			walkChildren(n.Children, append(next, name), sourceID, out)
		case Leaf:
			if n.URL == "" {
				continue
			}
			folder := models.RootFolder
			if len(lineage) > 0 {
				folder = strings.Join(lineage, LineageSeparator)
			}
			*out = append(*out, models.Tuple{
				Title:      n.Title,
				URL:        n.URL,
				FolderPath: folder,
				SourceID:   sourceID,
			})
		}
	}
}
