// styletune discovers a locally optimal .clang-format configuration for a
// source tree by coordinate descent over the formatter's style options,
// scoring each candidate by the edit cost clang-format would apply.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/styletune/styletune/internal/catalog"
	"github.com/styletune/styletune/internal/clangformat"
	"github.com/styletune/styletune/internal/config"
	"github.com/styletune/styletune/internal/corpus"
	"github.com/styletune/styletune/internal/dispatch"
	"github.com/styletune/styletune/internal/history"
	"github.com/styletune/styletune/internal/oracle"
	"github.com/styletune/styletune/internal/optimize"
	"github.com/styletune/styletune/internal/style"
)

var rootCmd = &cobra.Command{
	Use:   "styletune [paths or globs...]",
	Short: "Auto-tune a .clang-format configuration against your sources",
	Long: `styletune searches for the .clang-format configuration that minimizes the
total edit cost clang-format would apply to your source files.

It hill-climbs one option at a time: high-impact options first (BasedOnStyle,
IndentWidth, UseTab, SortIncludes, IncludeBlocks), then the full catalog, and
finally prunes overrides that do not pay for themselves. Options you already
set in .clang-format are treated as explicit intent: never tuned, never
removed.

Only a coordinate-wise local optimum is guaranteed. Source files are never
modified; clang-format runs in report-only mode throughout.

Press Ctrl+C at any point: the best configuration found so far is saved.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runTune(cmd, args)
	},
}

func init() {
	rootCmd.Flags().String("binary", "", "clang-format executable (default: clang-format on PATH)")
	rootCmd.Flags().Int("workers", 0, "maximum concurrent clang-format invocations (default: 5)")
	rootCmd.Flags().Int("batch-size", 0, "files per clang-format invocation (default: 10)")
	rootCmd.Flags().Duration("timeout", 0, "per-invocation timeout (default: 30s)")
	rootCmd.Flags().Float64("launch-rate", 0, "max process launches per second (default: unlimited)")
	rootCmd.Flags().StringSlice("exclude", nil, "options to leave untouched (repeatable)")
	rootCmd.Flags().Bool("skip-minimize", false, "skip the override-pruning pass")
	rootCmd.Flags().String("history", "", "SQLite file to log evaluations to (also acts as a cost memo)")
	rootCmd.Flags().BoolP("verbose", "v", false, "list the corpus files before tuning")
}

// loadSettings layers file config, environment, and flags, in that order.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("binary"); v != "" {
		cfg.Binary = v
	}
	if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
		cfg.Workers = v
	}
	if v, _ := cmd.Flags().GetInt("batch-size"); v > 0 {
		cfg.BatchSize = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.InvokeTimeout = v
	}
	if v, _ := cmd.Flags().GetFloat64("launch-rate"); v > 0 {
		cfg.LaunchRate = v
	}
	if v, _ := cmd.Flags().GetStringSlice("exclude"); len(v) > 0 {
		cfg.Exclude = append(cfg.Exclude, v...)
	}
	if v, _ := cmd.Flags().GetBool("skip-minimize"); v {
		cfg.SkipMinimize = true
	}
	if v, _ := cmd.Flags().GetString("history"); v != "" {
		cfg.HistoryPath = v
	}
	return cfg, cfg.Validate()
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := clangformat.NewRunner(&clangformat.Config{
		Binary:  cfg.Binary,
		Timeout: cfg.InvokeTimeout,
	})

	// Fatal before any search begins: a missing or incompatible formatter
	// would make every cost meaningless.
	if err := runner.CheckCompatible(ctx); err != nil {
		return err
	}

	store := style.NewStore(".")
	baseline, err := store.Load()
	if errors.Is(err, os.ErrNotExist) {
		baseline = style.New()
		baseline.Set("Language", "Cpp")
		fmt.Printf("%s not found: will create it for you\n", style.ConfigFileName)
	} else if err != nil {
		return err
	}

	files, err := corpus.Collect(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no C/C++ source files found")
	}
	fmt.Printf("Source files: %d\n", len(files))
	if verbose {
		fmt.Println(strings.Join(files, " "))
	}

	// Keys already present in the baseline are explicit user intent: frozen
	// for the minimizer and excluded from the search.
	frozen := baseline.Keys()
	exclude := append(baseline.Keys(), cfg.Exclude...)

	working := baseline.Clone()
	if _, ok := working.Lookup("BreakBeforeBraces"); !ok {
		working.Set("BreakBeforeBraces", "Custom")
	}
	if working.Get("BreakBeforeBraces") != "Custom" {
		// A brace preset overrides individual BraceWrapping flags, so tuning
		// them would only burn evaluations.
		for _, name := range catalog.Names() {
			if strings.HasPrefix(name, "BraceWrapping"+style.PathSeparator) {
				exclude = append(exclude, name)
			}
		}
	}

	var hist *history.Store
	if cfg.HistoryPath != "" {
		hist, err = history.Open(ctx, &history.Config{Path: cfg.HistoryPath, CorpusFiles: len(files)})
		if err != nil {
			return err
		}
		defer func() { _ = hist.Close() }()
	}

	pool := dispatch.NewPool(&dispatch.Config{
		Workers:    cfg.Workers,
		LaunchRate: cfg.LaunchRate,
	})
	evalCfg := &oracle.Config{
		Store:     store,
		Runner:    runner,
		Pool:      pool,
		BatchSize: cfg.BatchSize,
	}
	if hist != nil {
		evalCfg.History = hist
	}
	evaluator, err := oracle.NewEvaluator(evalCfg)
	if err != nil {
		return err
	}

	costFn := func(ctx context.Context, s *style.Settings) (int, error) {
		return evaluator.Evaluate(ctx, s, files)
	}
	valuesFn := func(ctx context.Context, key string, baseline *style.Settings) ([]string, error) {
		return catalog.SafeValues(ctx, key, baseline, evaluator)
	}
	report := newConsoleReporter(os.Stdout, os.Stderr)

	start := time.Now()
	err = tune(ctx, working, costFn, valuesFn, exclude, frozen, cfg.SkipMinimize, report)
	interrupted := errors.Is(err, context.Canceled) || ctx.Err() != nil
	if err != nil && !interrupted {
		// The working configuration is still the best found; persist it
		// before surfacing the failure.
		_ = store.Write(working)
		return err
	}
	if interrupted {
		fmt.Println("\nInterrupted")
	}
	fmt.Printf("Processing time: %s\n\n", time.Since(start).Round(time.Millisecond))

	fmt.Printf("Saving best configuration to %s\n", store.Path())
	if err := store.Write(working); err != nil {
		return err
	}
	if hist != nil {
		if err := hist.FinishRun(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	return nil
}

// tune runs the two search phases and the pruning pass in sequence.
func tune(
	ctx context.Context,
	working *style.Settings,
	costFn optimize.CostFunc,
	valuesFn optimize.SafeValuesFunc,
	exclude, frozen []string,
	skipMinimize bool,
	report *consoleReporter,
) error {
	// Phase 1: coarse convergence on the options that dominate edit cost.
	report.Phase("Tuning priority options")
	err := optimize.Optimize(ctx, working, costFn, optimize.Options{
		Include: catalog.Priority(),
		Exclude: exclude,
		Values:  valuesFn,
		Report:  report,
	})
	if err != nil {
		return err
	}

	// Phase 2: the full catalog.
	report.Phase("Tuning all options")
	err = optimize.Optimize(ctx, working, costFn, optimize.Options{
		Exclude: exclude,
		Values:  valuesFn,
		Report:  report,
	})
	if err != nil {
		return err
	}

	if skipMinimize {
		return nil
	}
	report.Phase("Minimizing the configuration")
	return optimize.Minimize(ctx, working, costFn, frozen, report)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
