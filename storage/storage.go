// Package storage writes target configuration files atomically and keeps
// enough of the previous state to undo a write.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store provides atomic file writes rooted at a base directory. Relative
// paths are resolved against the base; absolute paths are used as given.
type Store struct {
	baseDir string
	mu      sync.Mutex
}

// Snapshot is the state of a file before a write.
type Snapshot struct {
	Path    string
	Existed bool
	Data    []byte
	Mode    fs.FileMode
}

// New creates a new Store instance with the given base directory.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Path resolves name against the store's base directory.
func (s *Store) Path(name string) string {
	if filepath.IsAbs(name) || s.baseDir == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(s.baseDir, name)
}

// EnsureDirs creates the base directory.
func (s *Store) EnsureDirs() error {
	if s.baseDir == "" {
		return nil
	}
	return os.MkdirAll(s.baseDir, 0o755)
}

// Read returns the current contents of name. A missing file is reported as
// a snapshot with Existed false.
func (s *Store) Read(name string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(s.Path(name))
}

func (s *Store) read(path string) (Snapshot, error) {
	snap := Snapshot{Path: path, Mode: 0o644}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return snap, nil
		}
		return snap, err
	}
	if info.IsDir() {
		return snap, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, err
	}
	snap.Existed = true
	snap.Data = data
	snap.Mode = info.Mode().Perm()
	return snap, nil
}

// WriteFile replaces name with data via a temporary file and rename, so
// readers see either the old or the new content. It returns the snapshot
// taken before the write and whether anything changed; identical content is
// left untouched.
func (s *Store) WriteFile(name string, data []byte) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(name)
	prev, err := s.read(path)
	if err != nil {
		return prev, false, fmt.Errorf("read %s: %w", path, err)
	}
	if prev.Existed && bytes.Equal(prev.Data, data) {
		return prev, false, nil
	}

	if err := writeAtomic(path, data, prev.Mode); err != nil {
		return prev, false, err
	}
	return prev, true, nil
}

// Restore puts a file back into the state captured by snap.
func (s *Store) Restore(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !snap.Existed {
		if err := os.Remove(snap.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", snap.Path, err)
		}
		return nil
	}
	return writeAtomic(snap.Path, snap.Data, snap.Mode)
}

func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Chmod(mode); err != nil {
		f.Close()
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
