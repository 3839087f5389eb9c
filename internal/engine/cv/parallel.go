package cv

import (
	"context"

	"go.trai.ch/sift/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// ForEachFold runs fn for every split with at most parallelism concurrent calls.
// Results are stored by split position, so the output is independent of completion order.
// The first error cancels the remaining folds and is returned.
func ForEachFold[T any](
	ctx context.Context,
	splits []domain.Split,
	parallelism int,
	fn func(ctx context.Context, split domain.Split) (T, error),
) ([]T, error) {
	out := make([]T, len(splits))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallelism, 1))

	for i, split := range splits {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := fn(ctx, split)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
