package lock

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// FileLock represents a handle to an OS-level file lock.
type FileLock struct {
	Name     string
	FilePath string
	flock    *flock.Flock
}

// LockManagerInterface defines the methods a lock manager should implement.
// AcquireLock obtains an exclusive OS-level lock named name and returns a
// handle which must be provided back to ReleaseLock.
type LockManagerInterface interface {
	AcquireLock(ctx context.Context, name string, timeout time.Duration) (*FileLock, error)
	ReleaseLock(lock *FileLock) error
}
