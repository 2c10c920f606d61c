package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/styletune/styletune/internal/clangformat"
	"github.com/styletune/styletune/internal/config"
	"github.com/styletune/styletune/internal/corpus"
	"github.com/styletune/styletune/internal/style"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [paths or globs...]",
	Short: "Check that the environment is ready for a tuning run",
	Long: `Run health checks for common styletune environment problems.

This command checks:
- clang-format presence and version compatibility
- .clang-format readability
- that the given paths contain C/C++ source files
- that the working directory is writable

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Critical failures that prevent tuning entirely`,
	Run: func(cmd *cobra.Command, args []string) {
		if code := runDoctor(context.Background(), args, os.Stdout); code != 0 {
			os.Exit(code)
		}
	},
}

// runDoctor runs every health check, printing results to out, and returns
// the process exit code: 0 all passed, 1 failures, 2 critical failures.
func runDoctor(ctx context.Context, args []string, out io.Writer) int {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(out, "Running styletune health checks...\n\n")

	var failures []string
	var criticalFailures []string

	cfg, err := config.LoadDefault()
	if err != nil {
		cfg = config.Default()
		failures = append(failures, fmt.Sprintf("Bad %s: %v", config.FileName, err))
		fmt.Fprintf(out, "%s Settings file\n  %s %v\n", cyan("→"), red("✗"), err)
	}

	// Check 1: clang-format on PATH with a supported version
	fmt.Fprintf(out, "%s clang-format\n", cyan("→"))
	runner := clangformat.NewRunner(&clangformat.Config{Binary: cfg.Binary})
	version, err := runner.Version(ctx)
	switch {
	case errors.Is(err, clangformat.ErrToolMissing):
		criticalFailures = append(criticalFailures, "clang-format not found")
		fmt.Fprintf(out, "  %s %s not found in PATH\n", red("✗"), cfg.Binary)
	case err != nil:
		criticalFailures = append(criticalFailures, fmt.Sprintf("clang-format check failed: %v", err))
		fmt.Fprintf(out, "  %s %v\n", red("✗"), err)
	case !clangformat.Compatible(version):
		criticalFailures = append(criticalFailures, fmt.Sprintf("unsupported clang-format %s", version))
		fmt.Fprintf(out, "  %s Version %s is unsupported (need %d.x)\n", red("✗"), version, clangformat.SupportedMajor)
	default:
		fmt.Fprintf(out, "  %s Found clang-format %s\n", green("✓"), version)
	}

	// Check 2: style configuration file
	fmt.Fprintf(out, "%s Style configuration\n", cyan("→"))
	store := style.NewStore(".")
	baseline, err := store.Load()
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(out, "  %s No %s yet (tuning will create one)\n", yellow("⚠"), style.ConfigFileName)
	case err != nil:
		failures = append(failures, fmt.Sprintf("unreadable %s: %v", style.ConfigFileName, err))
		fmt.Fprintf(out, "  %s %v\n", red("✗"), err)
	default:
		fmt.Fprintf(out, "  %s %s with %d explicit option(s) (these stay frozen)\n",
			green("✓"), style.ConfigFileName, baseline.Len())
	}

	// Check 3: source corpus
	fmt.Fprintf(out, "%s Source corpus\n", cyan("→"))
	files, err := corpus.Collect(args)
	switch {
	case err != nil:
		failures = append(failures, fmt.Sprintf("corpus collection failed: %v", err))
		fmt.Fprintf(out, "  %s %v\n", red("✗"), err)
	case len(files) == 0:
		failures = append(failures, "no C/C++ source files found")
		fmt.Fprintf(out, "  %s No C/C++ source files found\n", red("✗"))
	default:
		fmt.Fprintf(out, "  %s %d source file(s)\n", green("✓"), len(files))
	}

	// Check 4: working directory writable (the tuner rewrites
	// .clang-format on every evaluation)
	fmt.Fprintf(out, "%s Working directory\n", cyan("→"))
	tmp, err := os.CreateTemp(".", ".styletune-doctor-*")
	if err != nil {
		criticalFailures = append(criticalFailures, fmt.Sprintf("working directory not writable: %v", err))
		fmt.Fprintf(out, "  %s Not writable: %v\n", red("✗"), err)
	} else {
		name := tmp.Name()
		_ = tmp.Close()
		_ = os.Remove(name)
		fmt.Fprintf(out, "  %s Writable\n", green("✓"))
	}

	fmt.Fprintln(out)
	switch {
	case len(criticalFailures) > 0:
		fmt.Fprintf(out, "%s Critical failures prevent tuning\n", red("✗"))
		return 2
	case len(failures) > 0:
		fmt.Fprintf(out, "%s %d check(s) failed\n", red("✗"), len(failures))
		return 1
	default:
		fmt.Fprintf(out, "%s All checks passed\n", green("✓"))
		return 0
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
