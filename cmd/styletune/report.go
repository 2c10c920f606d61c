package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// consoleReporter prints search progress in a compact form: one dot per key
// scanned without improvement, a full line per commit or removal.
type consoleReporter struct {
	out    io.Writer
	errOut io.Writer
	dots   int
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
}

func newConsoleReporter(out, errOut io.Writer) *consoleReporter {
	return &consoleReporter{
		out:    out,
		errOut: errOut,
		green:  color.New(color.FgGreen).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
		cyan:   color.New(color.FgCyan).SprintFunc(),
	}
}

// Phase announces a new tuning phase.
func (r *consoleReporter) Phase(name string) {
	r.breakDots()
	fmt.Fprintf(r.out, "%s %s\n", r.cyan("→"), name)
}

func (r *consoleReporter) Begin(n, cost int) {
	r.breakDots()
	fmt.Fprintf(r.out, "  %d variables, starting cost %d\n", n, cost)
}

func (r *consoleReporter) Commit(key, value string, from, to int, costs map[string]int) {
	r.breakDots()
	fmt.Fprintf(r.out, "  %s Set %s=%s cost %d=>%d %s\n",
		r.green("✓"), key, value, from, to, formatCosts(costs))
}

func (r *consoleReporter) Removed(key string, from, to int) {
	r.breakDots()
	fmt.Fprintf(r.out, "  %s Removed %s cost %d => %d\n", r.green("✓"), key, from, to)
}

func (r *consoleReporter) Visited(string) {
	fmt.Fprint(r.out, ".")
	r.dots++
}

func (r *consoleReporter) ToolError(key string, err error) {
	r.breakDots()
	fmt.Fprintf(r.errOut, "  %s %s: %v\n", r.yellow("⚠"), key, err)
}

func (r *consoleReporter) Done(cost int) {
	r.breakDots()
	fmt.Fprintf(r.out, "  Done, cost %d\n", cost)
}

func (r *consoleReporter) breakDots() {
	if r.dots > 0 {
		fmt.Fprintln(r.out)
		r.dots = 0
	}
}

// formatCosts renders "{val:cost ...}" sorted by ascending cost.
func formatCosts(costs map[string]int) string {
	type vc struct {
		val  string
		cost int
	}
	sorted := make([]vc, 0, len(costs))
	for v, c := range costs {
		sorted = append(sorted, vc{v, c})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].cost != sorted[j].cost {
			return sorted[i].cost < sorted[j].cost
		}
		return sorted[i].val < sorted[j].val
	})
	parts := make([]string, len(sorted))
	for i, e := range sorted {
		parts[i] = fmt.Sprintf("%s:%d", e.val, e.cost)
	}
	return "{" + strings.Join(parts, " ") + "}"
}
