// Package aggregator fans extraction out across every located source and
// gathers the partial results.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ilexum-group/webtrail/internal/bookmarks"
	"github.com/ilexum-group/webtrail/internal/snapshot"
	"github.com/ilexum-group/webtrail/internal/sources"
	"github.com/ilexum-group/webtrail/internal/utils"
	"github.com/ilexum-group/webtrail/internal/workpool"
	"github.com/ilexum-group/webtrail/pkg/models"
)

// ErrExtractionTimeout is reported for a source that did not finish within
// the per-source timeout. Its contribution is dropped.
var ErrExtractionTimeout = errors.New("extraction timed out")

// DefaultWorkers caps concurrent source reads when no limit is given
const DefaultWorkers = 8

// HistoryReader reads relational history stores
type HistoryReader interface {
	Read(ctx context.Context, src models.ResolvedSource) ([]models.Tuple, error)
}

// TreeExtractor reads bookmark tree stores
type TreeExtractor interface {
	Extract(src models.ResolvedSource) ([]models.Tuple, error)
}

// Report summarizes one source's contribution
type Report struct {
	SourceID string
	Tuples   int
	Err      error
	Elapsed  time.Duration
}

// Aggregator runs one extraction per source on a bounded pool
type Aggregator struct {
	history HistoryReader
	trees   TreeExtractor
	workers int
	timeout time.Duration
}

// New creates an Aggregator
func New(history HistoryReader, trees TreeExtractor, workers int, timeout time.Duration) *Aggregator {
	if history == nil {
		history = snapshot.NewReader(nil, "", 0)
	}
	if trees == nil {
		trees = bookmarks.NewExtractor(nil)
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Aggregator{history: history, trees: trees, workers: workers, timeout: timeout}
}

// Aggregate extracts every source and returns the tuples concatenated in
// source order, which is not the order the workers finish in. A failing
// or timed-out source contributes nothing and never affects the others.
func (a *Aggregator) Aggregate(ctx context.Context, srcs []models.ResolvedSource) ([]models.Tuple, []Report) {
	tasks := make([]workpool.Task[[]models.Tuple], len(srcs))
	for i, src := range srcs {
		src := src
		tasks[i] = func(ctx context.Context) ([]models.Tuple, error) {
			return a.extractWithTimeout(ctx, src)
		}
	}

	results := workpool.Run(ctx, min(len(srcs), a.workers), tasks)

	tuples := make([]models.Tuple, 0)
	reports := make([]Report, len(srcs))
	for i, r := range results {
		src := srcs[i]
		reports[i] = Report{SourceID: src.ID, Err: r.Err, Elapsed: r.Elapsed}
		if r.Err != nil {
			utils.LogWarn("Source skipped", map[string]string{
				"source": src.ID,
				"error":  r.Err.Error(),
			})
			continue
		}
		for _, t := range r.Value {
			t.SourceID = src.ID
			t.Order = src.Order
			tuples = append(tuples, t)
		}
		reports[i].Tuples = len(r.Value)
	}

	utils.LogInfo("Sources aggregated", map[string]string{
		"sources": fmt.Sprintf("%d", len(srcs)),
		"entries": fmt.Sprintf("%d", len(tuples)),
	})
	return tuples, reports
}

// extractWithTimeout bounds a single extraction. File copies and plist
// parsing do not observe ctx, so the work runs in its own goroutine and is
// abandoned (not cancelled) on timeout; its deferred cleanup still runs.
func (a *Aggregator) extractWithTimeout(ctx context.Context, src models.ResolvedSource) ([]models.Tuple, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	type outcome struct {
		tuples []models.Tuple
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("%w: %s: panic: %v", sources.ErrSourceUnavailable, src.ID, p)}
			}
		}()
		t, err := a.extract(ctx, src)
		done <- outcome{t, err}
	}()

	select {
	case o := <-done:
		if o.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", ErrExtractionTimeout, src.ID, a.timeout)
		}
		return o.tuples, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", ErrExtractionTimeout, src.ID, a.timeout)
		}
		return nil, ctx.Err()
	}
}

func (a *Aggregator) extract(ctx context.Context, src models.ResolvedSource) ([]models.Tuple, error) {
	switch src.Format {
	case models.FormatHistoryDB:
		return a.history.Read(ctx, src)
	case models.FormatBookmarksJSON, models.FormatBookmarksPlist:
		return a.trees.Extract(src)
	default:
		return nil, fmt.Errorf("%w: %s: unknown format %q", sources.ErrSourceUnavailable, src.ID, src.Format)
	}
}
