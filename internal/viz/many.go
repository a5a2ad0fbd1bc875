package viz

import (
	"context"

	"golang.org/x/sync/errgroup"

	"goviz/domain/chart"
	"goviz/domain/table"
)

// BuildMany builds one spec per request, in request order. Requests are
// independent: a failing request yields an error spec in its slot and does
// not affect the others. The only error returned is ctx's.
func (b *Builder) BuildMany(ctx context.Context, t *table.Table, reqs []chart.Request) ([]chart.Spec, error) {
	specs := make([]chart.Spec, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.maxParallel)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			specs[i] = b.Build(t, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.logger.Debug("Built %d charts", len(specs))
	return specs, nil
}
