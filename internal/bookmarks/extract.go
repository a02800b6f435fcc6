package bookmarks

import (
	"fmt"

	"github.com/ilexum-group/webtrail/internal/sources"
	"github.com/ilexum-group/webtrail/pkg/models"
)

// Extractor reads bookmark trees from disk
type Extractor struct {
	fs sources.FileAccessor
}

// NewExtractor creates an Extractor. A nil accessor means the host filesystem.
func NewExtractor(fs sources.FileAccessor) *Extractor {
	if fs == nil {
		fs = sources.HostFS()
	}
	return &Extractor{fs: fs}
}

// Extract parses src according to its format and flattens the tree. Tuples
// are tagged with the source id and registration order.
func (e *Extractor) Extract(src models.ResolvedSource) ([]models.Tuple, error) {
	data, err := e.fs.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", sources.ErrSourceUnavailable, src.ID, err)
	}

	var root Folder
	switch src.Format {
	case models.FormatBookmarksJSON:
		root, err = ParseChromium(data)
	case models.FormatBookmarksPlist:
		root, err = ParseSafari(data)
	default:
		return nil, fmt.Errorf("%w: %s: not a bookmark format: %q", sources.ErrSourceUnavailable, src.ID, src.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", sources.ErrSourceUnavailable, src.ID, err)
	}

	tuples := Walk(root, src.ID)
	for i := range tuples {
		tuples[i].Order = src.Order
	}
	return tuples, nil
}
