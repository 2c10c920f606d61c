package optimize

// Reporter receives search progress events. Implementations must tolerate
// being called from the single-threaded control loop only; no locking is
// needed.
type Reporter interface {
	// Begin announces a phase over n tunable keys starting at cost.
	Begin(n, cost int)

	// Commit reports that key was set to value, improving cost from from to
	// to. costs holds every evaluated value's cost for this key, including
	// the displaced incumbent when there was one.
	Commit(key, value string, from, to int, costs map[string]int)

	// Removed reports that key was pruned, moving cost from from to to.
	Removed(key string, from, to int)

	// Visited reports a key scanned without improvement.
	Visited(key string)

	// ToolError reports a candidate dropped because the formatter failed on
	// it.
	ToolError(key string, err error)

	// Done announces phase convergence at the final cost.
	Done(cost int)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Begin(int, int)                                  {}
func (NopReporter) Commit(string, string, int, int, map[string]int) {}
func (NopReporter) Removed(string, int, int)                        {}
func (NopReporter) Visited(string)                                  {}
func (NopReporter) ToolError(string, error)                         {}
func (NopReporter) Done(int)                                        {}
