package style

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the file clang-format discovers style settings from.
const ConfigFileName = ".clang-format"

// Store persists settings to the shared on-disk configuration file that
// clang-format reads. The tuning loop is strictly sequential, so a plain
// write-then-invoke discipline is safe: the write always completes before any
// invocation that depends on it starts, and no two evaluations overlap.
type Store struct {
	path string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, ConfigFileName)}
}

// Path returns the configuration file path.
func (st *Store) Path() string {
	return st.path
}

// Write persists settings, replacing any previous contents.
func (st *Store) Write(s *Settings) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(st.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", st.path, err)
	}
	return nil
}

// Load reads the persisted settings. A missing file surfaces as an error
// satisfying errors.Is(err, os.ErrNotExist) so callers can seed a fresh
// baseline instead.
func (st *Store) Load() (*Settings, error) {
	f, err := os.Open(st.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", st.path, err)
	}
	defer func() { _ = f.Close() }()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", st.path, err)
	}
	return s, nil
}
