package workers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Workers runs its workers with at most limit of them in flight.
type Workers struct {
	limit   int
	workers []Worker
}

// New returns an aggregate. A non-positive limit means no bound.
func New(limit int, workers ...Worker) *Workers {
	return &Workers{limit: limit, workers: workers}
}

// Add appends workers to the aggregate.
func (w *Workers) Add(workers ...Worker) {
	w.workers = append(w.workers, workers...)
}

// Len returns the number of registered workers.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker and waits for all of them. It returns the first
// error; workers not started yet are skipped once the context is done.
func (w *Workers) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	if w.limit > 0 {
		g.SetLimit(w.limit)
	}

	for _, worker := range w.workers {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return worker.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
