package repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T, ttl time.Duration) (*RedisConversationRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisConversationRepository(rdb, ttl), mr
}

func TestConversationRoundTrip(t *testing.T) {
	r, mr := newRepo(t, 15*time.Minute)
	ctx := context.Background()

	require.NoError(t, r.AddMessage(ctx, "c1", schema.UserMessage("anything vegan near expiry?")))
	require.NoError(t, r.AddMessage(ctx, "c1", schema.AssistantMessage("Try the oat milk, 40% off.", nil)))

	assert.Equal(t, 15*time.Minute, mr.TTL("conversation:c1:messages"))

	n, err := r.GetMessageCount(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	h, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", h.ConversationID)
	require.Len(t, h.Messages, 2)
	assert.Equal(t, schema.User, h.Messages[0].Role)
	assert.Equal(t, "Try the oat milk, 40% off.", h.Messages[1].Content)

	require.NoError(t, r.ClearHistory(ctx, "c1"))
	n, err = r.GetMessageCount(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConversationUnknownIsEmpty(t *testing.T) {
	r, _ := newRepo(t, 0)

	h, err := r.LoadHistory(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, h.Messages)
}

func TestConversationCorruptEntry(t *testing.T) {
	r, mr := newRepo(t, 0)
	_, err := mr.Lpush("conversation:bad:messages", "{not json")
	require.NoError(t, err)

	_, err = r.LoadHistory(context.Background(), "bad")
	assert.ErrorContains(t, err, "index 0")
}

func TestConversationRedisDown(t *testing.T) {
	r, mr := newRepo(t, 0)
	mr.Close()

	err := r.AddMessage(context.Background(), "c1", schema.UserMessage("hi"))
	assert.Error(t, err)
}
