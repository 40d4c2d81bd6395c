package splitter

import (
	"errors"
	"path/filepath"
	"testing"

	"tracksplit/internal/failure"
)

func TestLockPathIsStablePerDirectory(t *testing.T) {
	a := lockPath("/locks", "/music/out")
	b := lockPath("/locks", "/music/out/")
	c := lockPath("/locks", "/music/other")
	if a != b {
		t.Fatalf("expected cleaned paths to share a lock: %s vs %s", a, b)
	}
	if a == c {
		t.Fatal("expected distinct directories to use distinct locks")
	}
	if filepath.Dir(a) != "/locks" || filepath.Ext(a) != ".lock" {
		t.Fatalf("unexpected lock path %s", a)
	}
}

func TestAcquireOutputLockRejectsConcurrentRun(t *testing.T) {
	lockDir := t.TempDir()
	out := t.TempDir()

	first, err := acquireOutputLock(lockDir, out)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if _, err := acquireOutputLock(lockDir, out); !errors.Is(err, failure.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := first.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	second, err := acquireOutputLock(lockDir, out)
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	_ = second.Unlock()
}
