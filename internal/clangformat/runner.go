// Package clangformat wraps invocations of the external clang-format binary:
// version preflight, replacement reports, and effective-config dumps.
package clangformat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	// DefaultBinary is the clang-format executable looked up on PATH.
	DefaultBinary = "clang-format"

	// SupportedMajor is the clang-format major version the option catalog
	// was extracted from. Other majors rename or retype options, which
	// would silently skew the search.
	SupportedMajor = 13

	// DefaultTimeout bounds a single invocation. Formatting a batch of ten
	// files is normally sub-second; anything past this is a hung process.
	DefaultTimeout = 30 * time.Second
)

// ErrToolMissing indicates the clang-format binary is not on PATH.
var ErrToolMissing = errors.New("clang-format not found in PATH")

// VersionError indicates an installed clang-format with an unsupported
// version.
type VersionError struct {
	Version string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("clang-format version %s is not supported (need %d.x)", e.Version, SupportedMajor)
}

// InvocationError carries the exit status and diagnostic text of a failed
// invocation. The search loop recovers from these at the granularity of one
// candidate value.
type InvocationError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("clang-format exited with status %d: %s", e.ExitCode, strings.TrimSpace(e.Stderr))
}

// Runner invokes clang-format in a fixed working directory. It is stateless
// and safe for concurrent use; all mutable state lives in the configuration
// file the tool reads, which the sequential control loop owns.
type Runner struct {
	binary  string
	dir     string
	timeout time.Duration
}

// Config holds runner configuration.
type Config struct {
	Binary  string        // Executable name or path (default: clang-format)
	Dir     string        // Working directory for invocations (default: .)
	Timeout time.Duration // Per-invocation timeout (default: 30s)
}

// NewRunner creates a runner, filling in defaults for zero fields.
func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	r := &Runner{
		binary:  cfg.Binary,
		dir:     cfg.Dir,
		timeout: cfg.Timeout,
	}
	if r.binary == "" {
		r.binary = DefaultBinary
	}
	if r.dir == "" {
		r.dir = "."
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	return r
}

// Version returns the installed clang-format version, e.g. "13.0.0".
func (r *Runner) Version(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "--version")
	if err != nil {
		return "", err
	}
	// Typical output: "Ubuntu clang-format version 13.0.0-2" or
	// "clang-format version 13.0.0".
	fields := strings.Fields(out)
	for i, f := range fields {
		if f == "version" && i+1 < len(fields) {
			ver := fields[i+1]
			if i := strings.IndexAny(ver, "-+ "); i >= 0 {
				ver = ver[:i]
			}
			return ver, nil
		}
	}
	return "", fmt.Errorf("unrecognized clang-format version output: %q", strings.TrimSpace(out))
}

// CheckCompatible fails unless the installed clang-format matches
// SupportedMajor.
func (r *Runner) CheckCompatible(ctx context.Context) error {
	ver, err := r.Version(ctx)
	if err != nil {
		return err
	}
	if !Compatible(ver) {
		return &VersionError{Version: ver}
	}
	return nil
}

// Compatible reports whether version belongs to the supported major line.
func Compatible(version string) bool {
	v := "v" + version
	if !semver.IsValid(v) {
		return false
	}
	return semver.Major(v) == fmt.Sprintf("v%d", SupportedMajor)
}

// Replacements runs clang-format in report-only mode over files and returns
// the XML replacements document. Source files are never modified.
func (r *Runner) Replacements(ctx context.Context, files []string) (string, error) {
	args := append([]string{"--style=file", "--output-replacements-xml"}, files...)
	return r.run(ctx, args...)
}

// DumpConfig returns the effective configuration: the persisted style file
// round-tripped through the formatter's own normalization, with every
// default filled in.
func (r *Runner) DumpConfig(ctx context.Context) (string, error) {
	return r.run(ctx, "--style=file", "--dump-config")
}

// run executes the binary with args and returns stdout. A missing binary
// maps to ErrToolMissing, a non-zero exit to *InvocationError.
func (r *Runner) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrToolMissing
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &InvocationError{
				Args:     append([]string{r.binary}, args...),
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return "", fmt.Errorf("running %s: %w", r.binary, err)
	}
	return stdout.String(), nil
}
