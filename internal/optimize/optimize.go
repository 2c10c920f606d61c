// Package optimize implements greedy coordinate descent over clang-format
// options, plus the pruning pass that removes redundant overrides. Both
// loops only guarantee a coordinate-wise local optimum under the given
// evaluation order; that is a documented limitation, not a bug.
package optimize

import (
	"context"
	"errors"

	"github.com/styletune/styletune/internal/catalog"
	"github.com/styletune/styletune/internal/style"
)

// CostFunc scores a candidate configuration over the fixed corpus.
type CostFunc func(ctx context.Context, cfg *style.Settings) (int, error)

// SafeValuesFunc lists the values worth trying for key given the current
// baseline configuration.
type SafeValuesFunc func(ctx context.Context, key string, baseline *style.Settings) ([]string, error)

// Options configures one search phase.
type Options struct {
	// Include restricts the scanned keys (default: the whole catalog).
	Include []string

	// Exclude names keys never scanned, typically the options the user set
	// explicitly in the baseline.
	Exclude []string

	// Values filters candidate values per key (default: static catalog
	// domains).
	Values SafeValuesFunc

	// Report receives progress events (default: silent).
	Report Reporter
}

func (o *Options) fill() {
	if o.Include == nil {
		o.Include = catalog.Names()
	}
	if o.Values == nil {
		o.Values = func(_ context.Context, key string, _ *style.Settings) ([]string, error) {
			return catalog.Values(key), nil
		}
	}
	if o.Report == nil {
		o.Report = NopReporter{}
	}
}

// Optimize hill-climbs working one option at a time: for the current key it
// scores every safe value, commits the cheapest when it strictly improves on
// the best cost so far, and cycles until a full pass produces no commit.
// Commits mutate working in place; candidates are evaluated on clones, so no
// error path leaves working partially mutated.
//
// A failed candidate evaluation (formatter error, malformed report) drops
// that value with a diagnostic and the scan continues. Context cancellation
// stops the loop and surfaces ctx.Err(); working keeps the best
// configuration found so far.
func Optimize(ctx context.Context, working *style.Settings, cost CostFunc, opts Options) error {
	opts.fill()
	keys := OrderedDiff(opts.Include, opts.Exclude)
	if len(keys) == 0 {
		return nil
	}

	current, err := cost(ctx, working)
	if err != nil {
		return err
	}
	opts.Report.Begin(len(keys), current)

	visited := make(map[string]bool)
	for i := 0; ; i = (i + 1) % len(keys) {
		key := keys[i]
		if visited[key] {
			break // full cycle without improvement: converged
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		costs, order, err := scanKey(ctx, working, key, cost, opts)
		if err != nil {
			return err
		}

		bestVal, bestCost, ok := cheapest(costs, order)
		if ok && bestCost < current {
			if cur, has := working.Lookup(key); has {
				costs[cur] = current // show the incumbent in the report
			}
			opts.Report.Commit(key, bestVal, current, bestCost, costs)
			working.Set(key, bestVal)
			current = bestCost
			visited = make(map[string]bool)
		} else {
			opts.Report.Visited(key)
		}
		visited[key] = true
	}

	opts.Report.Done(current)
	return nil
}

// scanKey evaluates every safe value for key against working, skipping the
// value it already holds. Returns the value→cost map and the evaluation
// order for tie-breaking.
func scanKey(ctx context.Context, working *style.Settings, key string, cost CostFunc, opts Options) (map[string]int, []string, error) {
	values, err := opts.Values(ctx, key, working)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		opts.Report.ToolError(key, err)
		return nil, nil, nil
	}

	costs := make(map[string]int, len(values))
	var order []string
	for _, val := range values {
		if working.Get(key) == val {
			continue // no redundant evaluation of the incumbent
		}
		candidate := working.Clone()
		candidate.Set(key, val)

		c, err := cost(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil, nil, err
			}
			// Recoverable at candidate granularity: drop this value.
			opts.Report.ToolError(key, err)
			continue
		}
		costs[val] = c
		order = append(order, val)
	}
	return costs, order, nil
}

// cheapest picks the minimum-cost value; ties go to the earliest value in
// evaluation (catalog) order.
func cheapest(costs map[string]int, order []string) (string, int, bool) {
	bestVal, bestCost, found := "", 0, false
	for _, val := range order {
		if c := costs[val]; !found || c < bestCost {
			bestVal, bestCost, found = val, c, true
		}
	}
	return bestVal, bestCost, found
}
