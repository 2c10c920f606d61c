package optimize

import (
	"context"
	"errors"

	"github.com/styletune/styletune/internal/style"
)

// Minimize prunes explicit overrides from working: for each key not in the
// frozen set it scores the configuration with that key removed (reverting to
// the formatter's built-in default) and accepts the removal when the cost
// does not worsen. Equal-cost removals are accepted on purpose: fewer
// explicit overrides is the better configuration when cost is neutral.
//
// Keys in frozen were present in the original baseline - explicit user
// intent - and are never removed. Terminates under the same
// full-cycle-without-improvement rule as Optimize.
func Minimize(ctx context.Context, working *style.Settings, cost CostFunc, frozen []string, report Reporter) error {
	if report == nil {
		report = NopReporter{}
	}
	keys := OrderedDiff(working.Keys(), frozen)
	if len(keys) == 0 {
		return nil
	}

	current, err := cost(ctx, working)
	if err != nil {
		return err
	}
	report.Begin(len(keys), current)

	visited := make(map[string]bool)
	for i := 0; ; i = (i + 1) % len(keys) {
		key := keys[i]
		if visited[key] {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !working.Has(key) {
			visited[key] = true
			continue // removed in an earlier pass of this cycle
		}

		candidate := working.Clone()
		candidate.Delete(key)
		newCost, err := cost(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return err
			}
			report.ToolError(key, err)
			visited[key] = true
			continue
		}

		if newCost <= current {
			report.Removed(key, current, newCost)
			working.Delete(key)
			current = newCost
			visited = make(map[string]bool)
		} else {
			report.Visited(key)
		}
		visited[key] = true
	}

	report.Done(current)
	return nil
}
