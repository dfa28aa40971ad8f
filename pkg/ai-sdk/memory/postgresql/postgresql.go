package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/i2p-business/i2p/pkg/ai-sdk/memory"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool        *pgxpool.Pool
	tablePrefix string
}

type Opts struct {
	URL         string
	TablePrefix string
}

func New(ctx context.Context, opts Opts) (*Store, error) {
	pool, err := pgxpool.New(ctx, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	store := &Store{
		pool:        pool,
		tablePrefix: opts.TablePrefix,
	}

	if err := store.ensureTables(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure tables: %w", err)
	}

	return store, nil
}

func (s *Store) sessionTable() string {
	if s.tablePrefix != "" {
		return fmt.Sprintf("%s_advisor_sessions", s.tablePrefix)
	}
	return "advisor_sessions"
}

func (s *Store) ensureTables(ctx context.Context) error {
	table := s.sessionTable()

	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			last_task TEXT NOT NULL DEFAULT '',
			last_prompt TEXT NOT NULL DEFAULT '',
			last_output TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`, table)

	createIndexSQL := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS idx_%s_updated ON %s(updated_at)
	`, table, table)

	if _, err := s.pool.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}

	if _, err := s.pool.Exec(ctx, createIndexSQL); err != nil {
		return fmt.Errorf("failed to create sessions index: %w", err)
	}

	return nil
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (types.Session, error) {
	query := fmt.Sprintf(`
		SELECT id, last_task, last_prompt, last_output, created_at, updated_at
		FROM %s WHERE id = $1
	`, s.sessionTable())

	var session types.Session
	err := s.pool.QueryRow(ctx, query, sessionID).Scan(
		&session.ID,
		&session.LastTask,
		&session.LastPrompt,
		&session.LastOutput,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return memory.NewSession(sessionID), nil
	}
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (s *Store) SaveSession(ctx context.Context, session types.Session) error {
	if session.ID == "" {
		return types.ErrInvalidSession
	}

	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	upsertSQL := fmt.Sprintf(`
		INSERT INTO %s (id, last_task, last_prompt, last_output, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			last_task = EXCLUDED.last_task,
			last_prompt = EXCLUDED.last_prompt,
			last_output = EXCLUDED.last_output,
			updated_at = EXCLUDED.updated_at
	`, s.sessionTable())

	_, err := s.pool.Exec(ctx, upsertSQL,
		session.ID,
		session.LastTask,
		session.LastPrompt,
		session.LastOutput,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	deleteSQL := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.sessionTable())

	if _, err := s.pool.Exec(ctx, deleteSQL, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (s *Store) DeleteIdleSessions(ctx context.Context, idleFor time.Duration) (int, error) {
	deleteSQL := fmt.Sprintf(`DELETE FROM %s WHERE updated_at < $1`, s.sessionTable())

	tag, err := s.pool.Exec(ctx, deleteSQL, time.Now().Add(-idleFor))
	if err != nil {
		return 0, fmt.Errorf("failed to delete idle sessions: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
