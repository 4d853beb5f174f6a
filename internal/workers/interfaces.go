// Package workers runs groups of short-lived tasks with bounded
// concurrency.
//
// A [Workers] aggregate collects [Worker] values and runs them on an
// errgroup. The first failure cancels the context handed to the remaining
// workers; Run returns only after every started worker has returned.
package workers

import "context"

// Worker is a unit of work run by [Workers].
//
// Example implementation:
//
//	type download struct{ url string }
//
//	func (d download) Run(ctx context.Context) error {
//	    // fetch d.url, honouring ctx
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a plain function to [Worker].
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
