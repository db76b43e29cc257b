// Package session serializes conversation turns per user.
package session

import (
	"context"
	"sync"
	"time"
)

// Manager hands out one mutex per user id so a user's read-route-write
// cycle never interleaves with another turn of the same user. Different
// users run in parallel.
type Manager struct {
	mu    sync.Mutex
	locks map[string]*userLock
	now   func() time.Time
}

type userLock struct {
	mu       sync.Mutex
	lastUsed time.Time
	holders  int
}

func NewManager() *Manager {
	return &Manager{
		locks: make(map[string]*userLock),
		now:   time.Now,
	}
}

// WithLock executes fn while holding userID's mutex.
func (m *Manager) WithLock(userID string, fn func() error) error {
	m.mu.Lock()
	ul, ok := m.locks[userID]
	if !ok {
		ul = &userLock{}
		m.locks[userID] = ul
	}
	ul.holders++
	m.mu.Unlock()

	ul.mu.Lock()
	defer func() {
		ul.mu.Unlock()
		m.mu.Lock()
		ul.holders--
		ul.lastUsed = m.now()
		m.mu.Unlock()
	}()

	return fn()
}

// Cleanup drops locks idle for longer than maxAge. Locks that are held or
// awaited are never dropped.
func (m *Manager) Cleanup(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, ul := range m.locks {
		if ul.holders == 0 && now.Sub(ul.lastUsed) > maxAge {
			delete(m.locks, id)
			removed++
		}
	}
	return removed
}

// Len reports how many user locks are tracked.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// RunJanitor calls Cleanup every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval, maxAge time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := m.Cleanup(maxAge)
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}
