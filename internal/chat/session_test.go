package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadoia/internal/model"
)

func newTestSession(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &SessionStore{Client: client}, mr
}

func TestSessionStore_AppendKeepsLastMessages(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		require.NoError(t, s.Append(ctx, "c1", model.ChatMessage{Role: "user", Content: fmt.Sprintf("msg %d", i)}))
	}

	history, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, historyLimit)
	assert.Equal(t, "msg 2", history[0].Content)
	assert.Equal(t, "msg 11", history[9].Content)
}

func TestSessionStore_HistoryExpires(t *testing.T) {
	s, mr := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "c1", model.ChatMessage{Role: "user", Content: "oi"}))
	mr.FastForward(31 * time.Minute)

	history, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSessionStore_Cooldown(t *testing.T) {
	s, mr := newTestSession(t)
	ctx := context.Background()

	paused, err := s.InCooldown(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, paused)

	require.NoError(t, s.SetCooldown(ctx, "c1", HumanTakeoverTTL))
	paused, err = s.InCooldown(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, paused)

	mr.FastForward(HumanTakeoverTTL)
	paused, err = s.InCooldown(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, paused)
}

func TestSessionStore_UnreadableHistoryStartsOver(t *testing.T) {
	s, mr := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(historyKey("c1"), "{quebrado"))

	history, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, s.Append(ctx, "c1", model.ChatMessage{Role: "user", Content: "oi"}))
	history, err = s.Get(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "oi", history[0].Content)
}
