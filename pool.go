package mdtodoc

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent compiles; each holds a full document
	// and its inlined resources in memory.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for minification and extension processes.
	cpuDivisor = 2
)

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// runBatch compiles sources with up to workers goroutines. Results keep
// the order of sources; a failure does not stop the other files. Once ctx
// is done, pending sources fail with the context error.
func runBatch(ctx context.Context, workers int, sources []string, compile func(context.Context, string) Result) []Result {
	if len(sources) == 0 {
		return nil
	}
	if workers > len(sources) {
		workers = len(sources)
	}
	if workers < MinPoolSize {
		workers = MinPoolSize
	}

	results := make([]Result, len(sources))
	jobs := make(chan int, len(sources))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = Result{Source: sources[idx], Err: err}
					continue
				}
				results[idx] = compile(ctx, sources[idx])
			}
		}()
	}

	for i := range sources {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}
