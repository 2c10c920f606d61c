package optimize

// OrderedDiff returns the elements of include that are not in exclude,
// preserving include's relative order.
func OrderedDiff(include, exclude []string) []string {
	drop := make(map[string]bool, len(exclude))
	for _, k := range exclude {
		drop[k] = true
	}
	var out []string
	for _, k := range include {
		if !drop[k] {
			out = append(out, k)
		}
	}
	return out
}
