package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver for history databases

	"github.com/ilexum-group/webtrail/internal/sources"
	"github.com/ilexum-group/webtrail/internal/utils"
	"github.com/ilexum-group/webtrail/pkg/models"
)

// DefaultRowLimit caps the rows taken from one history store
const DefaultRowLimit = 1000

// Reader extracts history tuples from relational stores
type Reader struct {
	fs      sources.FileAccessor
	tempDir string
	limit   int
}

// NewReader creates a Reader copying snapshots into tempDir
func NewReader(fs sources.FileAccessor, tempDir string, limit int) *Reader {
	if fs == nil {
		fs = sources.HostFS()
	}
	if limit <= 0 {
		limit = DefaultRowLimit
	}
	return &Reader{fs: fs, tempDir: tempDir, limit: limit}
}

// Read snapshots src and runs the extraction statement for its schema.
// Every failure, including a panic during extraction, is reported as
// ErrSourceUnavailable, and the snapshot is removed on every path.
func (r *Reader) Read(ctx context.Context, src models.ResolvedSource) (tuples []models.Tuple, err error) {
	defer func() {
		if p := recover(); p != nil {
			tuples = nil
			err = fmt.Errorf("%w: %s: panic during extraction: %v", sources.ErrSourceUnavailable, src.ID, p)
		}
	}()

	ext, ok := extractions[src.Schema]
	if !ok {
		return nil, fmt.Errorf("%w: %s: unsupported schema %q", sources.ErrSourceUnavailable, src.ID, src.Schema)
	}

	start := time.Now()
	snap, err := Acquire(r.fs, src.Path, r.tempDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: snapshot: %v", sources.ErrSourceUnavailable, src.ID, err)
	}
	defer func() {
		if cerr := snap.Close(); cerr != nil {
			utils.LogWarn("Failed to remove snapshot", map[string]string{"source": src.ID, "error": cerr.Error()})
		}
	}()

	tuples, err = r.query(ctx, snap.Path, ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", sources.ErrSourceUnavailable, src.ID, err)
	}

	for i := range tuples {
		tuples[i].SourceID = src.ID
		tuples[i].Order = src.Order
		tuples[i].FolderPath = models.RootFolder
	}

	utils.LogDebug("History extracted", map[string]string{
		"source":   src.ID,
		"entries":  fmt.Sprintf("%d", len(tuples)),
		"duration": time.Since(start).String(),
	})
	return tuples, nil
}

func (r *Reader) query(ctx context.Context, path string, ext extraction) ([]models.Tuple, error) {
	// The snapshot is private, but the connection still refuses writes.
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=query_only(1)")
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			utils.LogDebug("Failed to close snapshot db", map[string]string{"error": err.Error()})
		}
	}()

	rows, err := db.QueryContext(ctx, ext.query, r.limit)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			utils.LogDebug("Failed to close snapshot rows", map[string]string{"error": err.Error()})
		}
	}()

	tuples := make([]models.Tuple, 0)
	for rows.Next() {
		t, err := ext.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if t.URL == "" {
			continue
		}
		tuples = append(tuples, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return tuples, nil
}
