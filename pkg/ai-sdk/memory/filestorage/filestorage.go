package filestorage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/i2p-business/i2p/pkg/ai-sdk/memory"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
)

const sessionFileExt = ".json"

// Store persists every session as one JSON file in baseDir.
type Store struct {
	mu      sync.RWMutex
	baseDir string
}

// New creates a new file storage with the given base directory
// If baseDir is empty, it defaults to "./sessions"
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = "./sessions"
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Store{baseDir: baseDir}, nil
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.readSession(s.sessionPath(sessionID))
	if errors.Is(err, os.ErrNotExist) {
		return memory.NewSession(sessionID), nil
	}
	if err != nil {
		return types.Session{}, err
	}

	return session, nil
}

func (s *Store) SaveSession(ctx context.Context, session types.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		return types.ErrInvalidSession
	}

	session.UpdatedAt = time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write then rename so readers never observe a half written file
	path := s.sessionPath(session.ID)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	return nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.sessionPath(sessionID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}

	return nil
}

func (s *Store) DeleteIdleSessions(ctx context.Context, idleFor time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read session directory: %w", err)
	}

	cutoff := time.Now().Add(-idleFor)
	deleted := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), sessionFileExt) {
			continue
		}

		path := filepath.Join(s.baseDir, entry.Name())

		session, err := s.readSession(path)
		if err != nil {
			continue
		}

		if session.UpdatedAt.Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deleted++
			}
		}
	}

	return deleted, nil
}

func (s *Store) readSession(path string) (types.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Session{}, err
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return types.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return session, nil
}

// Session IDs come from callers, so they are encoded rather than used as paths.
func (s *Store) sessionPath(sessionID string) string {
	name := base64.RawURLEncoding.EncodeToString([]byte(sessionID))
	return filepath.Join(s.baseDir, name+sessionFileExt)
}
