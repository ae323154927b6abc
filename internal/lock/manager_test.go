package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	testLockTimeout  = 200 * time.Millisecond
	veryShortTimeout = 20 * time.Millisecond
)

func TestLockManager_NewLockManager(t *testing.T) {
	lm := NewLockManager("")
	if lm == nil {
		t.Fatal("NewLockManager returned nil")
	}
	if lm.dir == "" {
		t.Error("expected empty dir to default to the temp directory")
	}

	dir := t.TempDir()
	if got := NewLockManager(dir).dir; got != dir {
		t.Errorf("expected dir %s, got %s", dir, got)
	}
}

func TestLockManager_AcquireReleaseBasic(t *testing.T) {
	lm := NewLockManager(t.TempDir())

	lock, err := lm.AcquireLock(context.Background(), "picker", testLockTimeout)
	if err != nil {
		t.Fatalf("AcquireLock failed: %v", err)
	}
	if lock.Name != "picker" || lock.FilePath != lm.Path("picker") {
		t.Errorf("unexpected lock handle %+v", lock)
	}

	if err := lm.ReleaseLock(lock); err != nil {
		t.Fatalf("ReleaseLock failed: %v", err)
	}

	// Reacquiring after release must succeed immediately.
	lock, err = lm.AcquireLock(context.Background(), "picker", veryShortTimeout)
	if err != nil {
		t.Fatalf("reacquire failed: %v", err)
	}
	_ = lm.ReleaseLock(lock)
}

func TestLockManager_AcquireEmptyName(t *testing.T) {
	lm := NewLockManager(t.TempDir())
	_, err := lm.AcquireLock(context.Background(), "", testLockTimeout)
	if !errors.Is(err, ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func TestLockManager_ReleaseNil(t *testing.T) {
	lm := NewLockManager(t.TempDir())
	if err := lm.ReleaseLock(nil); !errors.Is(err, ErrNilLock) {
		t.Errorf("expected ErrNilLock, got %v", err)
	}
}

func TestLockManager_LockTimeout(t *testing.T) {
	lm := NewLockManager(t.TempDir())

	held, err := lm.AcquireLock(context.Background(), "busy", testLockTimeout)
	if err != nil {
		t.Fatalf("initial AcquireLock failed: %v", err)
	}
	defer lm.ReleaseLock(held)

	start := time.Now()
	_, err = lm.AcquireLock(context.Background(), "busy", veryShortTimeout)
	if !errors.Is(err, ErrLockTimeout) {
		t.Errorf("expected ErrLockTimeout, got %v", err)
	}
	if time.Since(start) < veryShortTimeout {
		t.Errorf("second acquire returned before the timeout elapsed")
	}
}

func TestLockManager_ContextCancelled(t *testing.T) {
	lm := NewLockManager(t.TempDir())

	held, err := lm.AcquireLock(context.Background(), "busy", testLockTimeout)
	if err != nil {
		t.Fatalf("initial AcquireLock failed: %v", err)
	}
	defer lm.ReleaseLock(held)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := lm.AcquireLock(ctx, "busy", time.Second); err == nil {
		t.Error("expected error for a cancelled context")
	}
}

func TestLockManager_DistinctNamesDoNotContend(t *testing.T) {
	lm := NewLockManager(t.TempDir())

	a, err := lm.AcquireLock(context.Background(), "a", testLockTimeout)
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	defer lm.ReleaseLock(a)

	b, err := lm.AcquireLock(context.Background(), "b", veryShortTimeout)
	if err != nil {
		t.Fatalf("acquire b while a is held: %v", err)
	}
	_ = lm.ReleaseLock(b)
}

func TestLockManager_MutualExclusion(t *testing.T) {
	lm := NewLockManager(t.TempDir())

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock, err := lm.AcquireLock(context.Background(), "shared", 2*time.Second)
			if err != nil {
				t.Errorf("AcquireLock: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			_ = lm.ReleaseLock(lock)
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Errorf("expected at most one holder at a time, saw %d", maxInside)
	}
}
