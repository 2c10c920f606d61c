// Package oracle turns a candidate configuration into a single comparable
// edit cost by driving the external formatter over the file corpus.
package oracle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/styletune/styletune/internal/dispatch"
	"github.com/styletune/styletune/internal/replacements"
	"github.com/styletune/styletune/internal/style"
)

// DefaultBatchSize is how many corpus files one formatter invocation covers.
const DefaultBatchSize = 10

// ConfigWriter persists a configuration to the shared resource the external
// formatter reads.
type ConfigWriter interface {
	Write(s *style.Settings) error
}

// ToolRunner is the slice of the clang-format runner the oracle needs.
type ToolRunner interface {
	Replacements(ctx context.Context, files []string) (string, error)
	DumpConfig(ctx context.Context) (string, error)
}

// Dispatcher executes batched invocations and returns one report per batch,
// in batch order.
type Dispatcher interface {
	Run(ctx context.Context, batches [][]string, invoke dispatch.InvokeFunc) ([]string, error)
}

// History memoizes evaluation results. Cost is a pure function of
// (configuration, corpus), so a recorded cost for the same fingerprint can
// be returned without spawning processes.
type History interface {
	LookupCost(ctx context.Context, fingerprint string) (cost int, ok bool, err error)
	RecordEvaluation(ctx context.Context, fingerprint string, cost int, elapsed time.Duration) error
}

// Evaluator is the cost oracle. The control loop calls Evaluate strictly
// sequentially; parallelism exists only inside one call, across its batches.
type Evaluator struct {
	store     ConfigWriter
	runner    ToolRunner
	pool      Dispatcher
	batchSize int
	history   History
}

// Config holds evaluator configuration.
type Config struct {
	Store     ConfigWriter
	Runner    ToolRunner
	Pool      Dispatcher
	BatchSize int     // Files per invocation (default: 10)
	History   History // Optional memo/run log
}

// NewEvaluator creates a cost oracle.
func NewEvaluator(cfg *Config) (*Evaluator, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("config store is required")
	}
	if cfg.Runner == nil {
		return nil, fmt.Errorf("tool runner is required")
	}
	if cfg.Pool == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Evaluator{
		store:     cfg.Store,
		runner:    cfg.Runner,
		pool:      cfg.Pool,
		batchSize: batchSize,
		history:   cfg.History,
	}, nil
}

// Evaluate persists cfg, runs the formatter over the corpus in batches, and
// folds every batch report into one total edit cost. Deterministic for a
// fixed (cfg, corpus) pair. Exactly one write of the configuration resource
// happens per call, and it fully precedes every invocation that reads it.
func (e *Evaluator) Evaluate(ctx context.Context, cfg *style.Settings, corpus []string) (int, error) {
	if err := e.store.Write(cfg); err != nil {
		return 0, err
	}

	var fingerprint string
	if e.history != nil {
		fp, err := Fingerprint(cfg, corpus)
		if err != nil {
			// Memoization is best-effort; the evaluation itself will surface
			// a genuinely unreadable corpus.
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		} else {
			fingerprint = fp
			if cost, ok, err := e.history.LookupCost(ctx, fingerprint); err != nil {
				fmt.Fprintf(os.Stderr, "warning: history lookup failed: %v\n", err)
			} else if ok {
				return cost, nil
			}
		}
	}

	start := time.Now()
	reports, err := e.pool.Run(ctx, Partition(corpus, e.batchSize), e.runner.Replacements)
	if err != nil {
		return 0, err
	}

	parser := replacements.NewParser()
	for _, report := range reports {
		if err := parser.Feed(report); err != nil {
			return 0, err
		}
	}
	if err := parser.Close(); err != nil {
		return 0, err
	}
	total := parser.Total()

	if e.history != nil && fingerprint != "" {
		if err := e.history.RecordEvaluation(ctx, fingerprint, total, time.Since(start)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: history record failed: %v\n", err)
		}
	}
	return total, nil
}

// EffectiveConfig persists baseline and round-trips it through the
// formatter's --dump-config mode, returning the fully resolved
// configuration. Implements catalog.EffectiveResolver.
func (e *Evaluator) EffectiveConfig(ctx context.Context, baseline *style.Settings) (*style.Settings, error) {
	if err := e.store.Write(baseline); err != nil {
		return nil, err
	}
	out, err := e.runner.DumpConfig(ctx)
	if err != nil {
		return nil, err
	}
	effective, err := style.Parse([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("parsing effective configuration: %w", err)
	}
	return effective, nil
}

// Partition splits corpus into order-preserving batches of at most size
// files. The concatenation of the batches reproduces the corpus exactly.
func Partition(corpus []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var batches [][]string
	for start := 0; start < len(corpus); start += size {
		end := min(start+size, len(corpus))
		batches = append(batches, corpus[start:end])
	}
	return batches
}

// Fingerprint identifies one (configuration, corpus) evaluation for
// memoization. Each corpus file participates with its path, size, and
// modification time: the memo spans runs, and an edited source file must
// never answer with its pre-edit cost.
func Fingerprint(cfg *style.Settings, corpus []string) (string, error) {
	h := sha256.New()
	h.Write([]byte(cfg.Fingerprint()))
	for _, f := range corpus {
		info, err := os.Stat(f)
		if err != nil {
			return "", fmt.Errorf("fingerprinting corpus: %w", err)
		}
		fmt.Fprintf(h, "\x00%s\x00%d\x00%d", f, info.Size(), info.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
