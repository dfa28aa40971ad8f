package initialization

import (
	"context"
	"fmt"
	"time"

	"github.com/i2p-business/i2p/pkg/ai-sdk/memory"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const sweepTimeout = time.Minute

// SessionSweeper periodically deletes sessions idle for longer than the
// session TTL from stores that do not expire entries on their own.
type SessionSweeper struct {
	cron    *cron.Cron
	store   memory.Sweeper
	idleFor time.Duration
}

// NewSessionSweeper returns nil when store expires sessions itself or
// idleFor is not positive.
func NewSessionSweeper(store memory.Store, schedule string, idleFor time.Duration) (*SessionSweeper, error) {
	sweeper, ok := store.(memory.Sweeper)
	if !ok || idleFor <= 0 {
		return nil, nil
	}

	s := &SessionSweeper{
		cron:    cron.New(),
		store:   sweeper,
		idleFor: idleFor,
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		s.Sweep(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid session sweep schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Sweep runs one pass and returns how many sessions were removed.
func (s *SessionSweeper) Sweep(ctx context.Context) int {
	removed, err := s.store.DeleteIdleSessions(ctx, s.idleFor)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep idle sessions")
		return 0
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Dur("idle_for", s.idleFor).Msg("Swept idle sessions")
	}

	return removed
}

func (s *SessionSweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *SessionSweeper) Stop() {
	<-s.cron.Stop().Done()
}
