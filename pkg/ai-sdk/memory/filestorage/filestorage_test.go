package filestorage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	missing, err := store.GetSession(ctx, "../etc/passwd")
	require.NoError(t, err)
	assert.True(t, missing.IsEmpty())

	require.NoError(t, store.SaveSession(ctx, types.Session{
		ID:         "../etc/passwd",
		LastTask:   "pitch_deck",
		LastPrompt: "Create an investor-ready pitch deck",
		LastOutput: "Slide 1",
	}))

	session, err := store.GetSession(ctx, "../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "pitch_deck", session.LastTask)
	assert.Equal(t, "Slide 1", session.LastOutput)

	require.NoError(t, store.DeleteSession(ctx, "../etc/passwd"))
	require.NoError(t, store.DeleteSession(ctx, "../etc/passwd"))

	session, err = store.GetSession(ctx, "../etc/passwd")
	require.NoError(t, err)
	assert.True(t, session.IsEmpty())
}

func TestStore_DeleteIdleSessions(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.SaveSession(ctx, types.Session{ID: "recent", LastTask: "idea"}))

	stale := types.Session{ID: "stale", LastTask: "code"}
	require.NoError(t, store.SaveSession(ctx, stale))

	// Age the stale session on disk
	path := store.sessionPath("stale")
	session, err := store.readSession(path)
	require.NoError(t, err)
	session.UpdatedAt = time.Now().Add(-48 * time.Hour)
	writeRaw(t, path, session)

	deleted, err := store.DeleteIdleSessions(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(store.sessionPath("recent")), entries[0].Name())
}

func writeRaw(t *testing.T, path string, session types.Session) {
	t.Helper()

	data, err := json.Marshal(session)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}
