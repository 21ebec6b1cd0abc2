package repolist

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many repositories SyncAll fans out to at
// once, independent of how many a repolist document names.
const DefaultConcurrency = 32

// SyncAll expands every content set in rl and runs syncOne against each
// resulting URL, at most concurrency at a time. A single repository's
// failure is logged and does not stop the others, nor is it returned to
// the caller: a repolist commonly names hundreds of repositories, and a
// handful of their mirrors being unreachable on any given run is routine
// rather than exceptional for the fleet as a whole.
func SyncAll(ctx context.Context, rl Repolist, concurrency int, logger *zap.Logger, syncOne func(ctx context.Context, url string) error) error {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, product := range rl.Products {
		for _, cs := range product.ContentSets {
			for _, url := range Expand(cs) {
				url := url
				g.Go(func() error {
					if err := syncOne(ctx, url); err != nil {
						logger.Error("repository sync failed", zap.String("url", url), zap.Error(err))
					}
					return nil
				})
			}
		}
	}
	return g.Wait()
}
