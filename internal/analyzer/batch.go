package analyzer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/revibe/internal/scanner"
)

const defaultWorkers = 8

// AnalyzeAll analyzes files concurrently and returns the results in input
// order. Files that cannot be read or are binary are left out and reported
// through Options.OnSkip. The only error returned is ctx's.
func (a *Analyzer) AnalyzeAll(ctx context.Context, files []scanner.SourceFile) ([]*FileAnalysis, error) {
	workers := a.opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	slots := make([]*FileAnalysis, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i], errs[i] = a.AnalyzeFile(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*FileAnalysis, 0, len(files))
	for i, res := range slots {
		if errs[i] != nil {
			if a.opts.OnSkip != nil {
				a.opts.OnSkip(files[i], errs[i])
			}
			continue
		}
		out = append(out, res)
	}
	return out, nil
}
