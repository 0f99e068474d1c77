package downstream

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Join runs independent downstream calls concurrently and waits for all of
// them. If any leg fails the whole operation fails; dependent calls must stay
// sequential and should not come through here.
func Join(ctx context.Context, fns ...func(context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		fn := fn
		g.Go(func() error { return fn(ctx) })
	}
	return g.Wait()
}
