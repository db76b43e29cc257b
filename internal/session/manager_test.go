package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWithLockSerializesSameUser(t *testing.T) {
	m := NewManager()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WithLock("u1", func() error {
				n := atomic.AddInt32(&inside, 1)
				for {
					cur := atomic.LoadInt32(&maxInside)
					if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("expected at most 1 concurrent holder, got %d", maxInside)
	}
}

func TestWithLockReturnsFnError(t *testing.T) {
	m := NewManager()
	want := errors.New("boom")
	if err := m.WithLock("u1", func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestWithLockDifferentUsersInParallel(t *testing.T) {
	m := NewManager()
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = m.WithLock("a", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	done := make(chan struct{})
	go func() {
		_ = m.WithLock("b", func() error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("user b was blocked by user a")
	}
	close(release)
}

func TestCleanupDropsIdleLocks(t *testing.T) {
	m := NewManager()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	_ = m.WithLock("old", func() error { return nil })
	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	_ = m.WithLock("fresh", func() error { return nil })

	if removed := m.Cleanup(time.Hour); removed != 1 {
		t.Fatalf("expected 1 lock removed, got %d", removed)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 lock left, got %d", m.Len())
	}
}

func TestCleanupKeepsHeldLocks(t *testing.T) {
	m := NewManager()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	_ = m.WithLock("u1", func() error {
		if removed := m.Cleanup(-time.Second); removed != 0 {
			t.Errorf("held lock was removed")
		}
		return nil
	})
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunJanitor(ctx, time.Millisecond, time.Hour, nil)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
