package logging

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// RotationConfig holds configuration for log rotation.
type RotationConfig struct {
	// MaxSizeMB is the maximum size of the log file in megabytes before
	// rotation. A value of 0 disables rotation.
	MaxSizeMB int
	// MaxBackups is the number of rotated log files to keep.
	MaxBackups int
}

// DefaultRotationConfig returns a RotationConfig suitable for a
// long-running daemon.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// RotatingWriter writes to a file and rotates it by size. Rotated files
// are renamed path.1 .. path.N, oldest last. Safe for concurrent use.
type RotatingWriter struct {
	mu sync.Mutex

	path       string
	maxSizeB   int64
	maxBackups int

	file        *os.File
	currentSize int64
}

// NewRotatingWriter opens (or creates) the log file at path. If
// cfg.MaxSizeMB is 0 the writer never rotates.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	rw := &RotatingWriter{
		path:       path,
		maxSizeB:   int64(cfg.MaxSizeMB) * 1024 * 1024,
		maxBackups: cfg.MaxBackups,
	}
	if err := rw.open(); err != nil {
		return nil, err
	}
	return rw, nil
}

func (rw *RotatingWriter) open() error {
	file, err := os.OpenFile(rw.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	rw.file = file
	rw.currentSize = info.Size()
	return nil
}

// Write implements io.Writer. It rotates before writing when the write
// would push the file past the size limit.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return 0, fmt.Errorf("writer is closed")
	}

	if rw.maxSizeB > 0 && rw.currentSize+int64(len(p)) > rw.maxSizeB {
		if err := rw.rotate(); err != nil {
			// A failed rotation must not lose the record; keep
			// appending to the oversized file.
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}

	n, err := rw.file.Write(p)
	rw.currentSize += int64(n)
	return n, err
}

// rotate closes the current file, shifts existing backups up by one and
// reopens a fresh file at the original path. On a failed shift the
// original file is reopened, so the writer stays usable either way.
// Called with the mutex held.
func (rw *RotatingWriter) rotate() error {
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rw.file = nil

	if err := rw.shiftBackups(); err != nil {
		if openErr := rw.open(); openErr != nil {
			return errors.Join(err, openErr)
		}
		return err
	}
	return rw.open()
}

// shiftBackups moves the current file and existing backups one slot up,
// dropping the oldest. With no backups configured the current file is
// simply removed.
func (rw *RotatingWriter) shiftBackups() error {
	if rw.maxBackups > 0 {
		// Drop the oldest backup, then shift the rest.
		oldest := fmt.Sprintf("%s.%d", rw.path, rw.maxBackups)
		_ = os.Remove(oldest)
		for i := rw.maxBackups - 1; i >= 1; i-- {
			from := fmt.Sprintf("%s.%d", rw.path, i)
			to := fmt.Sprintf("%s.%d", rw.path, i+1)
			if _, err := os.Stat(from); err == nil {
				_ = os.Rename(from, to)
			}
		}
		if err := os.Rename(rw.path, rw.path+".1"); err != nil {
			return fmt.Errorf("failed to rename log file: %w", err)
		}
	} else {
		if err := os.Remove(rw.path); err != nil {
			return fmt.Errorf("failed to remove log file: %w", err)
		}
	}

	return nil
}

// Close closes the underlying file.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return nil
	}
	if err := rw.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	err := rw.file.Close()
	rw.file = nil
	return err
}
