package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/matter/internal/logging"
	"github.com/thoreinstein/matter/pkg/item"
)

// Options controls a pipeline run.
type Options struct {
	// Workers bounds concurrency. Zero or less means runtime.NumCPU().
	Workers int
	// FailFast stops scheduling documents after the first failure.
	FailFast bool
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// Result is the outcome for one document.
type Result struct {
	Path   string
	Item   *item.Item
	Format Format
	Err    error
	// Skipped is set for documents never processed because the run was
	// cancelled or stopped early.
	Skipped bool
}

// Run applies stages, in order, to every item. A failing stage ends
// processing of that item only. Results are returned in input order.
//
// The returned error is the first failure when FailFast is set, the
// context error when ctx is cancelled, and nil otherwise; per-item
// failures are always in the results.
func Run(ctx context.Context, items []*item.Item, stages []Stage, opts Options) ([]Result, error) {
	results := make([]Result, len(items))
	for i, it := range items {
		results[i] = Result{Path: it.Path, Item: it, Skipped: true}
	}

	err := forEach(ctx, len(items), opts, func(_ context.Context, i int) error {
		r := &results[i]
		r.Skipped = false
		r.Err = apply(r.Item, stages)
		return r.Err
	})
	return results, err
}

// ParseFiles reads each path and parses it with the parser choose picks.
// Read failures and unknown formats are reported per file like parse
// failures.
func ParseFiles(ctx context.Context, paths []string, choose func(path string) Format, opts Options) ([]Result, error) {
	results := make([]Result, len(paths))
	for i, p := range paths {
		results[i] = Result{Path: p, Skipped: true}
	}

	err := forEach(ctx, len(paths), opts, func(ctx context.Context, i int) error {
		r := &results[i]
		r.Skipped = false
		r.Format = choose(r.Path)

		parse, err := ParserFor(r.Format)
		if err != nil {
			r.Err = err
			return err
		}
		it, err := item.Read(r.Path)
		if err != nil {
			r.Err = err
			return err
		}
		r.Item = it
		r.Err = apply(it, []Stage{parse})

		logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "parsed document",
			"path", r.Path, "format", r.Format, "ok", r.Err == nil)
		return r.Err
	})
	return results, err
}

func apply(it *item.Item, stages []Stage) error {
	for _, stage := range stages {
		if err := stage(it); err != nil {
			return err
		}
	}
	return nil
}

// forEach calls fn for indexes 0..n-1 on a bounded pool. Indexes never
// reached because of cancellation are not called.
func forEach(ctx context.Context, n int, opts Options, fn func(context.Context, int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if err := fn(gctx, i); err != nil && opts.FailFast {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
