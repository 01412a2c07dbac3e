package conversations

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-core/internal/agent/model"
)

type memoryRepo struct {
	msgs    map[string][]*schema.Message
	loadErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{msgs: map[string][]*schema.Message{}}
}

func (m *memoryRepo) AddMessage(_ context.Context, id string, msg *schema.Message) error {
	m.msgs[id] = append(m.msgs[id], msg)
	return nil
}

func (m *memoryRepo) LoadHistory(_ context.Context, id string) (*model.ConversationHistory, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return &model.ConversationHistory{ConversationID: id, Messages: m.msgs[id]}, nil
}

func (m *memoryRepo) ClearHistory(_ context.Context, id string) error {
	delete(m.msgs, id)
	return nil
}

func (m *memoryRepo) GetMessageCount(_ context.Context, id string) (int, error) {
	return len(m.msgs[id]), nil
}

func TestBuildResponseContext(t *testing.T) {
	repo := newMemoryRepo()
	mm := NewMessagesManager(repo, model.ConversationConfig{HistoryMaxMessages: 2})
	ctx := context.Background()

	require.NoError(t, mm.SaveUserMessage(ctx, "c1", "first"))
	require.NoError(t, mm.SaveResponse(ctx, "c1", "reply one"))
	require.NoError(t, repo.AddMessage(ctx, "c1", schema.ToolMessage(`{"x":1}`, "call_1")))
	require.NoError(t, mm.SaveUserMessage(ctx, "c1", "second"))

	msgs, err := mm.BuildResponseContext(ctx, "c1", "you are a grocery assistant")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, "reply one", msgs[1].Content)
	assert.Equal(t, "second", msgs[2].Content)
}

func TestBuildResponseContextUnlimited(t *testing.T) {
	repo := newMemoryRepo()
	mm := NewMessagesManager(repo, model.ConversationConfig{})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, mm.SaveUserMessage(ctx, "c1", "q"))
	}

	msgs, err := mm.BuildResponseContext(ctx, "c1", "sys")
	require.NoError(t, err)
	assert.Len(t, msgs, 6)

	cleared, err := mm.Clear(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 5, cleared)
	msgs, err = mm.BuildResponseContext(ctx, "c1", "sys")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestBuildResponseContextError(t *testing.T) {
	boom := errors.New("redis down")
	mm := NewMessagesManager(&memoryRepo{loadErr: boom}, model.ConversationConfig{})

	_, err := mm.BuildResponseContext(context.Background(), "c1", "sys")
	assert.ErrorIs(t, err, boom)
}
