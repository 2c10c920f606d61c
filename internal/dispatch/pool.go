// Package dispatch executes batched external invocations under a bounded
// worker pool.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultWorkers is the pool width: at most this many formatter processes
// run at once.
const DefaultWorkers = 5

// InvokeFunc runs one external invocation for a single batch of files and
// returns the tool's textual report.
type InvokeFunc func(ctx context.Context, batch []string) (string, error)

// Pool is a fixed-width worker pool. Batches are mutually independent, so
// execution order across them is unconstrained, but Run only returns after
// every dispatched batch has completed and its result is in place.
type Pool struct {
	workers int64
	limiter *rate.Limiter
}

// Config holds pool configuration.
type Config struct {
	Workers int // Maximum concurrent invocations (default: 5)

	// LaunchRate throttles process launches per second. Zero disables
	// throttling. Large corpora can otherwise fork-storm slower machines.
	LaunchRate float64
}

// NewPool creates a pool, filling in defaults for zero fields.
func NewPool(cfg *Config) *Pool {
	if cfg == nil {
		cfg = &Config{}
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	limit := rate.Inf
	burst := 0
	if cfg.LaunchRate > 0 {
		limit = rate.Limit(cfg.LaunchRate)
		burst = workers
	}
	return &Pool{
		workers: int64(workers),
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Run executes one invocation per batch and returns the reports in batch
// order. The first invocation error is returned after all in-flight batches
// drain. On context cancellation no new batches are dispatched and in-flight
// invocations are allowed to finish naturally; Run then returns ctx.Err()
// and the caller discards any partial results.
func (p *Pool) Run(ctx context.Context, batches [][]string, invoke InvokeFunc) ([]string, error) {
	results := make([]string, len(batches))
	sem := semaphore.NewWeighted(p.workers)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	// In-flight invocations keep running after an interrupt, so they get a
	// context detached from cancellation. The runner's own per-invocation
	// timeout still applies.
	invokeCtx := context.WithoutCancel(ctx)

	for i, batch := range batches {
		if err := p.limiter.Wait(ctx); err != nil {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func(i int, batch []string) {
			defer wg.Done()
			defer sem.Release(1)

			out, err := invoke(invokeCtx, batch)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("batch %d: %w", i, err)
				}
				mu.Unlock()
				return
			}
			results[i] = out
		}(i, batch)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
