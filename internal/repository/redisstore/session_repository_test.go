package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"audio-eval-be/pkg/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real Redis when REDIS_TEST_URL is set, e.g.
// REDIS_TEST_URL=redis://localhost:6379/15
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestClient(t), time.Minute)

	id := uuid.NewString()
	current := "b.wav"
	state := store.NewPlaylistState(id)
	state.AllFiles = []string{"a.wav", "b.wav"}
	state.RemainingFiles = []string{"a.wav"}
	state.CurrentFile = &current
	state.Initialized = true
	state.Cycle = 1

	require.NoError(t, repo.Save(ctx, state))
	t.Cleanup(func() { _ = repo.Delete(ctx, id) })

	got, found, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, state.AllFiles, got.AllFiles)
	assert.Equal(t, "b.wav", got.Current())
	assert.Equal(t, store.PhaseActive, got.Phase())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 1)

	require.NoError(t, repo.Delete(ctx, id))
	_, found, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)
}
