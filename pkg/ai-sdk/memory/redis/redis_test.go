package redis

import (
	"testing"
	"time"

	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
	"github.com/stretchr/testify/assert"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "i2p:sessions:abc", NewWithClient(nil, Opts{}).sessionKey("abc"))
	assert.Equal(t, "tenant:sessions:abc", NewWithClient(nil, Opts{KeyPrefix: "tenant"}).sessionKey("abc"))
}

func TestSessionHashRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Minute)

	session := types.Session{
		ID:         "abc",
		LastTask:   "financial_model",
		LastPrompt: "Create financial projections",
		LastOutput: "Revenue Projections",
		CreatedAt:  created,
		UpdatedAt:  updated,
	}

	hash := make(map[string]string)
	for k, v := range sessionToHash(session) {
		hash[k] = v.(string)
	}

	got := sessionFromHash("abc", hash)
	assert.Equal(t, session.LastTask, got.LastTask)
	assert.Equal(t, session.LastPrompt, got.LastPrompt)
	assert.Equal(t, session.LastOutput, got.LastOutput)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.True(t, updated.Equal(got.UpdatedAt))
}

func TestSessionFromHashToleratesBadTimestamps(t *testing.T) {
	got := sessionFromHash("abc", map[string]string{"last_task": "idea", "created_at": "yesterday"})

	assert.Equal(t, "idea", got.LastTask)
	assert.True(t, got.CreatedAt.IsZero())
	assert.False(t, got.CanContinue())
}
