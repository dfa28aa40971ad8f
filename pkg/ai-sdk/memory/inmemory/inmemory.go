package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/i2p-business/i2p/pkg/ai-sdk/memory"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
)

// Store keeps sessions in process memory. Sessions are lost on restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]types.Session
	now      func() time.Time
}

func New() *Store {
	return &Store{
		sessions: make(map[string]types.Session),
		now:      time.Now,
	}
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if session, ok := s.sessions[sessionID]; ok {
		return session, nil
	}

	return memory.NewSession(sessionID), nil
}

func (s *Store) SaveSession(ctx context.Context, session types.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		return types.ErrInvalidSession
	}

	session.UpdatedAt = s.now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}

	s.sessions[session.ID] = session

	return nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)

	return nil
}

func (s *Store) DeleteIdleSessions(ctx context.Context, idleFor time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idleFor)
	deleted := 0

	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			deleted++
		}
	}

	return deleted, nil
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
