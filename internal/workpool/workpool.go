// Package workpool runs independent tasks on a bounded number of goroutines
// and hands their results back to the caller in submission order.
package workpool

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of work. It must not share mutable state with siblings.
type Task[T any] func(ctx context.Context) (T, error)

// Result is the outcome of the task at Index
type Result[T any] struct {
	Index   int
	Value   T
	Err     error
	Elapsed time.Duration
}

// Run executes tasks with at most limit running concurrently and blocks
// until all of them return. A failing or panicking task only affects its
// own Result; the others keep running. Results are indexed like tasks.
func Run[T any](ctx context.Context, limit int, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}
	if limit <= 0 || limit > len(tasks) {
		limit = len(tasks)
	}

	out := make(chan Result[T], len(tasks))

	// A plain Group, not WithContext: one task's error must not cancel the rest.
	var g errgroup.Group
	g.SetLimit(limit)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			out <- runOne(ctx, i, task)
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(out)
	}()

	for r := range out {
		results[r.Index] = r
	}
	return results
}

func runOne[T any](ctx context.Context, i int, task Task[T]) (r Result[T]) {
	start := time.Now()
	r.Index = i
	defer func() {
		if p := recover(); p != nil {
			var zero T
			r.Value = zero
			r.Err = fmt.Errorf("task %d panicked: %v", i, p)
		}
		r.Elapsed = time.Since(start)
	}()

	r.Value, r.Err = task(ctx)
	return r
}
