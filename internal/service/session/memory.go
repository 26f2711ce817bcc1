package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	history   []string
	expiresAt time.Time
}

// MemoryStore keeps histories in process memory. Entries expire ttl after
// their last save; a zero ttl keeps them forever.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Load returns a copy of the stored history.
func (s *MemoryStore) Load(_ context.Context, id string) ([]string, error) {
	if id == "" {
		return nil, ErrSessionRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[id]
	if !ok || s.expired(entry) {
		return nil, nil
	}

	copied := make([]string, len(entry.history))
	copy(copied, entry.history)
	return copied, nil
}

// Save replaces the session's history and drops any expired sessions.
func (s *MemoryStore) Save(_ context.Context, id string, history []string) error {
	if id == "" {
		return ErrSessionRequired
	}

	entry := memoryEntry{history: append([]string(nil), history...)}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, existing := range s.sessions {
		if s.expired(existing) {
			delete(s.sessions, key)
		}
	}
	s.sessions[id] = entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return ErrSessionRequired
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Len reports how many sessions are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt)
}
