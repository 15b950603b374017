// Package parallel splits CPU-bound loops and independent tasks across goroutines.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Parallelize divides the specified total number (items) according to the number of CPU cores,
// and executes the specified function (fn) in parallel for each range (start, end)
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	// Get the number of available CPU cores
	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items // No need for more workers than items
	}

	// Calculate the number of items each worker handles (ceiling division)
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup

	// Start workers equal to the number of CPU cores
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}

		// Skip if there's no range to handle
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	// Wait for all workers to finish processing
	wg.Wait()
}

// ParallelizeWithThreshold performs parallelization only when the number of items exceeds the threshold
// If below threshold, normal sequential processing is performed
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		// Sequential processing when below threshold
		fn(0, items)
		return
	}

	// Parallel processing when above threshold
	Parallelize(items, fn)
}

// ForEach runs fn(ctx, i) for every i in [0, items) with at most limit tasks
// in flight. A limit <= 0 means runtime.NumCPU(). The first error cancels the
// shared context and is returned once all started tasks have finished. A
// panic inside fn is converted to an error.
func ForEach(ctx context.Context, items, limit int, fn func(ctx context.Context, i int) error) error {
	if items == 0 {
		return nil
	}
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < items; i++ {
		i := i
		g.Go(func() (err error) {
			defer errors.Recover(&err, fmt.Sprintf("parallel task %d", i))
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
