package scorer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/recovery-cli/internal/config"
	"github.com/sells-group/recovery-cli/internal/model"
)

// ScoreAll scores a batch of leads concurrently. Results are returned indexed
// to the input slice; the inputs themselves are not mutated. The only error
// source is context cancellation.
func ScoreAll(ctx context.Context, leads []model.Lead, cfg config.ScorerConfig) ([]model.ScoringResult, error) {
	results := make([]model.ScoringResult, len(leads))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range leads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Score(&leads[i], cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
