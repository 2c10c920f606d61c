package oracle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styletune/styletune/internal/dispatch"
	"github.com/styletune/styletune/internal/style"
)

// fakeStore counts writes and remembers the last configuration written.
type fakeStore struct {
	writes int
	last   *style.Settings
	err    error
}

func (s *fakeStore) Write(cfg *style.Settings) error {
	if s.err != nil {
		return s.err
	}
	s.writes++
	s.last = cfg.Clone()
	return nil
}

// fakeRunner emits one replacement of a fixed length per file in the batch.
type fakeRunner struct {
	perFile int
	calls   int
	dump    string
}

func (r *fakeRunner) Replacements(_ context.Context, files []string) (string, error) {
	r.calls++
	report := "<?xml version='1.0'?>\n<replacements xml:space='preserve'>\n"
	for range files {
		report += fmt.Sprintf("<replacement offset='0' length='%d'></replacement>\n", r.perFile)
	}
	return report + "</replacements>\n", nil
}

func (r *fakeRunner) DumpConfig(context.Context) (string, error) {
	return r.dump, nil
}

// serialPool runs batches inline, no concurrency.
type serialPool struct{}

func (serialPool) Run(ctx context.Context, batches [][]string, invoke dispatch.InvokeFunc) ([]string, error) {
	results := make([]string, len(batches))
	for i, b := range batches {
		out, err := invoke(ctx, b)
		if err != nil {
			return nil, err
		}
		results[i] = out
	}
	return results, nil
}

// memoHistory is an in-memory History.
type memoHistory struct {
	costs   map[string]int
	lookups int
	records int
}

func newMemoHistory() *memoHistory { return &memoHistory{costs: map[string]int{}} }

func (h *memoHistory) LookupCost(_ context.Context, fp string) (int, bool, error) {
	h.lookups++
	cost, ok := h.costs[fp]
	return cost, ok, nil
}

func (h *memoHistory) RecordEvaluation(_ context.Context, fp string, cost int, _ time.Duration) error {
	h.records++
	h.costs[fp] = cost
	return nil
}

func corpusOf(n int) []string {
	files := make([]string, n)
	for i := range files {
		files[i] = fmt.Sprintf("src/file%d.cpp", i)
	}
	return files
}

// tempCorpus writes n real source files; the memo fingerprints file
// metadata, so memo tests need files that exist on disk.
func tempCorpus(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	files := make([]string, n)
	for i := range files {
		files[i] = filepath.Join(dir, fmt.Sprintf("file%d.cpp", i))
		require.NoError(t, os.WriteFile(files[i], []byte("int x;\n"), 0o644))
	}
	return files
}

func newTestEvaluator(t *testing.T, cfg *Config) *Evaluator {
	t.Helper()
	eval, err := NewEvaluator(cfg)
	require.NoError(t, err)
	return eval
}

func TestNewEvaluatorRequiresCollaborators(t *testing.T) {
	store, runner := &fakeStore{}, &fakeRunner{}
	_, err := NewEvaluator(&Config{Runner: runner, Pool: serialPool{}})
	assert.Error(t, err)
	_, err = NewEvaluator(&Config{Store: store, Pool: serialPool{}})
	assert.Error(t, err)
	_, err = NewEvaluator(&Config{Store: store, Runner: runner})
	assert.Error(t, err)
}

func TestEvaluateSumsAcrossBatches(t *testing.T) {
	store := &fakeStore{}
	runner := &fakeRunner{perFile: 7}
	eval := newTestEvaluator(t, &Config{Store: store, Runner: runner, Pool: serialPool{}, BatchSize: 10})

	cfg := style.New()
	cfg.Set("IndentWidth", "4")

	cost, err := eval.Evaluate(context.Background(), cfg, corpusOf(25))
	require.NoError(t, err)
	assert.Equal(t, 25*7, cost)
	assert.Equal(t, 3, runner.calls, "25 files at batch size 10 is 3 invocations")
}

func TestEvaluateWritesConfigExactlyOnce(t *testing.T) {
	store := &fakeStore{}
	runner := &fakeRunner{perFile: 1}
	eval := newTestEvaluator(t, &Config{Store: store, Runner: runner, Pool: serialPool{}})

	cfg := style.New()
	cfg.Set("UseTab", "Never")

	_, err := eval.Evaluate(context.Background(), cfg, corpusOf(3))
	require.NoError(t, err)
	assert.Equal(t, 1, store.writes)
	assert.True(t, store.last.Equal(cfg), "the written configuration is the candidate under evaluation")
}

func TestEvaluateDeterministic(t *testing.T) {
	store := &fakeStore{}
	runner := &fakeRunner{perFile: 3}
	eval := newTestEvaluator(t, &Config{Store: store, Runner: runner, Pool: serialPool{}})

	cfg := style.New()
	cfg.Set("ColumnLimit", "80")
	corpus := corpusOf(12)

	first, err := eval.Evaluate(context.Background(), cfg, corpus)
	require.NoError(t, err)
	second, err := eval.Evaluate(context.Background(), cfg, corpus)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluateMemoSkipsInvocations(t *testing.T) {
	store := &fakeStore{}
	runner := &fakeRunner{perFile: 2}
	hist := newMemoHistory()
	eval := newTestEvaluator(t, &Config{Store: store, Runner: runner, Pool: serialPool{}, History: hist})

	cfg := style.New()
	cfg.Set("IndentWidth", "2")
	corpus := tempCorpus(t, 5)

	first, err := eval.Evaluate(context.Background(), cfg, corpus)
	require.NoError(t, err)
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, 1, hist.records)

	second, err := eval.Evaluate(context.Background(), cfg, corpus)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, runner.calls, "memo hit must not spawn processes")

	// The write still happens on a memo hit: the on-disk resource always
	// reflects the configuration the caller asked about.
	assert.Equal(t, 2, store.writes)
}

func TestEvaluateDistinctCorporaDistinctMemoEntries(t *testing.T) {
	store := &fakeStore{}
	runner := &fakeRunner{perFile: 1}
	hist := newMemoHistory()
	eval := newTestEvaluator(t, &Config{Store: store, Runner: runner, Pool: serialPool{}, History: hist})

	cfg := style.New()
	cfg.Set("IndentWidth", "2")

	_, err := eval.Evaluate(context.Background(), cfg, tempCorpus(t, 2))
	require.NoError(t, err)
	_, err = eval.Evaluate(context.Background(), cfg, tempCorpus(t, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, hist.records, "same configuration over a different corpus is a different evaluation")
}

func TestEvaluateMemoInvalidatedBySourceEdit(t *testing.T) {
	store := &fakeStore{}
	runner := &fakeRunner{perFile: 5}
	hist := newMemoHistory()
	eval := newTestEvaluator(t, &Config{Store: store, Runner: runner, Pool: serialPool{}, History: hist})

	cfg := style.New()
	cfg.Set("IndentWidth", "2")
	corpus := tempCorpus(t, 1)

	cost, err := eval.Evaluate(context.Background(), cfg, corpus)
	require.NoError(t, err)
	assert.Equal(t, 5, cost)

	// Edit the source between runs: the file's true cost under the same
	// configuration changes, so the recorded cost must not be reused.
	require.NoError(t, os.WriteFile(corpus[0], []byte("int x; int y; int z;\n"), 0o644))
	runner.perFile = 50

	cost, err = eval.Evaluate(context.Background(), cfg, corpus)
	require.NoError(t, err)
	assert.Equal(t, 50, cost, "an edited source invalidates its memo entry")
	assert.Equal(t, 2, runner.calls)
}

func TestEffectiveConfig(t *testing.T) {
	store := &fakeStore{}
	runner := &fakeRunner{dump: "---\nBinPackParameters: true\nIndentWidth: 4\n...\n"}
	eval := newTestEvaluator(t, &Config{Store: store, Runner: runner, Pool: serialPool{}})

	baseline := style.New()
	baseline.Set("IndentWidth", "4")

	effective, err := eval.EffectiveConfig(context.Background(), baseline)
	require.NoError(t, err)
	v, _ := effective.Lookup("BinPackParameters")
	assert.Equal(t, "true", v)
	assert.Equal(t, 1, store.writes, "the baseline is persisted before dumping")
}

func TestPartition(t *testing.T) {
	tests := []struct {
		files, size, batches int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{7, 1, 7},
	}
	for _, tt := range tests {
		corpus := corpusOf(tt.files)
		batches := Partition(corpus, tt.size)
		assert.Len(t, batches, tt.batches, "files=%d size=%d", tt.files, tt.size)

		flat := []string{}
		for _, b := range batches {
			assert.LessOrEqual(t, len(b), tt.size)
			flat = append(flat, b...)
		}
		assert.Equal(t, corpus, flat, "concatenating the batches reproduces the corpus")
	}
}

func fingerprintOf(t *testing.T, cfg *style.Settings, corpus []string) string {
	t.Helper()
	fp, err := Fingerprint(cfg, corpus)
	require.NoError(t, err)
	return fp
}

func TestFingerprintSensitivity(t *testing.T) {
	a := style.New()
	a.Set("IndentWidth", "2")
	b := style.New()
	b.Set("IndentWidth", "4")

	corpus := tempCorpus(t, 2)
	assert.NotEqual(t, fingerprintOf(t, a, corpus), fingerprintOf(t, b, corpus))
	assert.NotEqual(t, fingerprintOf(t, a, corpus), fingerprintOf(t, a, tempCorpus(t, 3)))
	assert.Equal(t, fingerprintOf(t, a, corpus), fingerprintOf(t, a.Clone(), corpus))

	// Content edits move the fingerprint: size here, and modification time
	// alone (a same-length edit) below.
	before := fingerprintOf(t, a, corpus)
	require.NoError(t, os.WriteFile(corpus[0], []byte("int much_longer_name;\n"), 0o644))
	assert.NotEqual(t, before, fingerprintOf(t, a, corpus))

	before = fingerprintOf(t, a, corpus)
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(corpus[0], future, future))
	assert.NotEqual(t, before, fingerprintOf(t, a, corpus))
}

func TestFingerprintMissingFile(t *testing.T) {
	cfg := style.New()
	_, err := Fingerprint(cfg, []string{filepath.Join(t.TempDir(), "gone.cpp")})
	assert.Error(t, err)
}
