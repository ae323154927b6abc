package lock

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

var (
	// ErrLockTimeout is returned when acquiring a lock times out.
	ErrLockTimeout = errors.New("timeout acquiring lock")
	// ErrNameRequired is returned when a lock name is empty.
	ErrNameRequired = errors.New("lock name is required")
	// ErrNilLock is returned when a nil lock handle is provided to ReleaseLock.
	ErrNilLock = errors.New("nil lock handle")
)

const (
	// shortPollInterval is the interval to sleep when polling for a lock.
	shortPollInterval = 10 * time.Millisecond
)

// LockManager hands out named locks backed by files in one directory. The
// locks are shared by every process using the same directory.
type LockManager struct {
	dir string
}

// NewLockManager initializes and returns a new LockManager. An empty dir
// means os.TempDir().
func NewLockManager(dir string) *LockManager {
	if dir == "" {
		dir = os.TempDir()
	}
	return &LockManager{dir: dir}
}

// Path returns the lock file used for name.
func (lm *LockManager) Path(name string) string {
	return filepath.Join(lm.dir, name+".lock")
}

// AcquireLock attempts to acquire an exclusive OS-level lock called name,
// waiting at most timeout. Cancelling ctx aborts the wait.
func (lm *LockManager) AcquireLock(ctx context.Context, name string, timeout time.Duration) (*FileLock, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path := lm.Path(name)
	fileLock := flock.New(path)
	locked, err := fileLock.TryLockContext(ctx, shortPollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLockTimeout
		}
		return nil, errors.Wrapf(err, "error acquiring lock %s", path)
	}
	if !locked {
		return nil, ErrLockTimeout
	}

	return &FileLock{Name: name, FilePath: path, flock: fileLock}, nil
}

// ReleaseLock releases the given OS-level lock. The lock file itself is left
// in place so that concurrent waiters keep contending on the same inode.
func (lm *LockManager) ReleaseLock(lock *FileLock) error {
	if lock == nil {
		return ErrNilLock
	}
	if lock.flock != nil {
		if err := lock.flock.Unlock(); err != nil {
			return errors.Wrapf(err, "error releasing lock %s", lock.FilePath)
		}
	}
	return nil
}
