package store

import (
	"context"
	"sync"

	"github.com/zenithlab/zenith-bot/internal/conversation"
)

// MemoryStore keeps sessions for the lifetime of the process.
// The mutex only protects the map itself.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]conversation.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]conversation.Session)}
}

// Get never fails.
func (m *MemoryStore) Get(_ context.Context, userID string) (conversation.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}
	return conversation.NewSession(userID), nil
}

func (m *MemoryStore) Put(_ context.Context, s conversation.Session) error {
	if s.UserID == "" {
		return ErrEmptyUserID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.UserID] = s
	return nil
}

// Len reports how many users have a stored session.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) Close() error { return nil }
