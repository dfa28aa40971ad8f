package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/i2p-business/i2p/pkg/ai-sdk/memory"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "i2p"

// Store keeps each session in a Redis hash and relies on key expiry for
// idle sessions.
type Store struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

type Opts struct {
	URL       string
	KeyPrefix string
	TTL       time.Duration
}

// New connects to the Redis instance at opts.URL (redis:// or rediss://).
func New(ctx context.Context, opts Opts) (*Store, error) {
	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(redisOpts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, opts), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, opts Opts) *Store {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &Store{
		client:    client,
		keyPrefix: prefix,
		ttl:       opts.TTL,
	}
}

func (s *Store) sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:sessions:%s", s.keyPrefix, sessionID)
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (types.Session, error) {
	result, err := s.client.HGetAll(ctx, s.sessionKey(sessionID)).Result()
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	if len(result) == 0 {
		return memory.NewSession(sessionID), nil
	}

	return sessionFromHash(sessionID, result), nil
}

func (s *Store) SaveSession(ctx context.Context, session types.Session) error {
	if session.ID == "" {
		return types.ErrInvalidSession
	}

	session.UpdatedAt = time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}

	key := s.sessionKey(session.ID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, sessionToHash(session))
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func sessionToHash(session types.Session) map[string]any {
	return map[string]any{
		"last_task":   session.LastTask,
		"last_prompt": session.LastPrompt,
		"last_output": session.LastOutput,
		"created_at":  session.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  session.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func sessionFromHash(sessionID string, hash map[string]string) types.Session {
	session := types.Session{
		ID:         sessionID,
		LastTask:   hash["last_task"],
		LastPrompt: hash["last_prompt"],
		LastOutput: hash["last_output"],
	}

	if t, err := time.Parse(time.RFC3339Nano, hash["created_at"]); err == nil {
		session.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, hash["updated_at"]); err == nil {
		session.UpdatedAt = t
	}

	return session
}
