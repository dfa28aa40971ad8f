package memory

import (
	"context"
	"time"

	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
)

// Store keeps one continuation session per caller.
//
// GetSession never reports a missing session as an error: it returns an
// empty session carrying the requested ID so a first request behaves like a
// fresh process.
type Store interface {
	GetSession(ctx context.Context, sessionID string) (types.Session, error)
	SaveSession(ctx context.Context, session types.Session) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// Sweeper is implemented by stores that cannot expire sessions on their own.
type Sweeper interface {
	// DeleteIdleSessions removes sessions not updated within idleFor and
	// returns how many were removed.
	DeleteIdleSessions(ctx context.Context, idleFor time.Duration) (int, error)
}

// NewSession returns an empty session for id.
func NewSession(id string) types.Session {
	now := time.Now()
	return types.Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NoOpStore never remembers anything; every request starts a fresh session.
type NoOpStore struct{}

func (s *NoOpStore) GetSession(ctx context.Context, sessionID string) (types.Session, error) {
	return NewSession(sessionID), nil
}

func (s *NoOpStore) SaveSession(ctx context.Context, session types.Session) error {
	return nil
}

func (s *NoOpStore) DeleteSession(ctx context.Context, sessionID string) error {
	return nil
}
