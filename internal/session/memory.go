package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation for tests and development.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session

	// FailSaves forces Save to fail, for exercising persistence-error paths.
	FailSaves error
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

// Load returns a copy of the stored session if present.
func (m *MemoryStore) Load(_ context.Context, userID int64) (*Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, false, nil
	}
	copied := s
	return &copied, true, nil
}

// Save stores a copy of the session keyed by user id, last write wins.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if m.FailSaves != nil {
		return &PersistenceError{Op: "save", Err: m.FailSaves}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *s
	stored.LastUpdated = time.Now().UTC()
	m.sessions[s.UserID] = stored
	return nil
}

// Len reports the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
