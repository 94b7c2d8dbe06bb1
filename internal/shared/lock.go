package shared

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockPath returns the lock file path kept next to the database file.
func LockPath(dbPath string) string {
	if dbPath == "" || dbPath == ":memory:" {
		return filepath.Join(os.TempDir(), "jellytrek.lock")
	}
	return dbPath + ".lock"
}

// AcquireLock takes an exclusive, non-blocking file lock at path.
//
// Returns [ErrLocked] when another process already holds it. Callers release with Unlock.
func AcquireLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return lock, nil
}
