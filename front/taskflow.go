// SPDX-License-Identifier: MIT

// Package front: the shared fork-join primitive.
// Both the engine's frontal-tree walk and this package's strip-split updates
// funnel through ForkJoin, so the scheduling policy lives in exactly one
// place: a caller-evaluated work-size predicate decides parallel or
// sequential, and a bounded group runs the parallel case.

package front

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForkJoin executes the tasks and joins them before returning.
//
// When parallel is false, workers ≤ 1, or there are fewer than two tasks,
// the tasks run sequentially in order, stopping at the first error. The
// parallel case runs them on an errgroup bounded to the worker count; the
// first error cancels the derived context, so tasks that have not started
// yet are skipped while already-running tasks finish their own work. That
// is exactly the unwind contract of the factorization: no new work after a
// fatal failure, no interruption of work in flight.
//
// The caller decides parallel from its own work-size predicate (subtree
// flops for the tree walk, update element counts for the strip split);
// ForkJoin itself imposes no policy.
func ForkJoin(ctx context.Context, workers int, parallel bool, tasks ...func(context.Context) error) error {
	if !parallel || workers <= 1 || len(tasks) < 2 {
		for _, t := range tasks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := t(ctx); err != nil {
				return err
			}
		}

		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err // skip tasks not yet started after a failure
			}

			return t(gctx)
		})
	}

	return g.Wait()
}
