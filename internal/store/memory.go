// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used for development/testing, or when durability is not required.
//
// Characteristics:
//   - Stores game sessions keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Copies on Save and Get so callers never share state with the map.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/wordguess/internal/game"
)

type memEntry struct {
	session   *game.Session
	updatedAt time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions
	sessions map[string]memEntry // keyed by session ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]memEntry), now: time.Now}
}

// Save adds or replaces the session under id.
func (m *memory) Save(ctx context.Context, id string, s *game.Session) error {
	if id == "" || s == nil {
		return ErrInvalid
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = memEntry{session: s.Clone(), updatedAt: m.now()}
	return nil
}

// Get returns a copy of the session stored under id, or ErrNotFound.
func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok {
		return e.session.Clone(), nil
	}
	return nil, ErrNotFound
}

// Touch refreshes the last-active time of an existing session.
func (m *memory) Touch(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[id]; ok {
		e.updatedAt = m.now()
		m.sessions[id] = e
	}
	return nil
}

// Delete removes the session; deleting a missing id is not an error.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Prune drops sessions last saved before the cutoff.
func (m *memory) Prune(ctx context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.updatedAt.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
