package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kwalsh-dev/rota/internal/logging"
)

// FileStore persists category state as a single JSON file, replaced
// atomically on every save. Safe for concurrent use.
type FileStore struct {
	path   string
	logger *logging.Logger
	mu     sync.Mutex
}

// NewFileStore creates a FileStore backed by the file at path. The
// file's parent directory is created on first save; a missing file is
// not an error (first run starts from empty state).
func NewFileStore(path string, logger *logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &FileStore{path: path, logger: logger}
}

// Load reads the persisted collection. An unreadable or corrupt file
// degrades to an empty collection with a warning rather than failing
// the caller: the worst consequence is re-doing idempotent work, while
// crashing here would wedge the daemon permanently.
func (fs *FileStore) Load() ([]CategoryState, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []CategoryState{}, nil
		}
		fs.logger.Warn("state file unreadable, starting from empty state",
			"path", fs.path, "error", err)
		return []CategoryState{}, nil
	}

	var states []CategoryState
	if err := json.Unmarshal(data, &states); err != nil {
		fs.logger.Warn("state file corrupt, starting from empty state",
			"path", fs.path, "error", err)
		return []CategoryState{}, nil
	}
	return states, nil
}

// Save atomically replaces the persisted collection. Failures
// propagate to the caller: silently losing a write would cause
// duplicate tracker side effects on the next run.
func (fs *FileStore) Save(states []CategoryState) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(fs.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	return atomicWriteFile(fs.path, data, 0644)
}

// atomicWriteFile writes data to path via a temp file and rename so a
// crash mid-write never leaves a truncated state file behind.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

var _ Store = (*FileStore)(nil)
