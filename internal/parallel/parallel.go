// Package parallel runs independent index-addressed work items on a
// bounded number of goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers resolves a requested worker count; n ≤ 0 selects GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// For calls fn(i) for every i in [0, n) using at most workers goroutines
// and returns the first error. Each index is handled by exactly one call,
// so fn may write to per-index output without synchronization and the
// result does not depend on scheduling.
func For(n, workers int, fn func(i int) error) error {
	workers = Workers(workers)
	if workers == 1 || n <= 1 {
		for i := range n {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range n {
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
