package nodes

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-core/internal/agent/model"
)

func TestToolLimit(t *testing.T) {
	state := &model.AppState{}

	for i := 0; i < 3; i++ {
		assert.False(t, incrementToolCallAndCheck(state, 3))
	}
	assert.False(t, state.ToolCallLimitReached)

	assert.True(t, checkAndMarkToolLimit(state, 3))
	assert.True(t, state.ToolCallLimitReached)
	assert.False(t, checkAndMarkToolLimit(state, 3), "marks only once")

	state = &model.AppState{ToolCallCount: DefaultMaxToolCalls}
	assert.True(t, incrementToolCallAndCheck(state, 0))
	assert.Equal(t, DefaultMaxToolCalls+1, state.ToolCallCount)
}

func TestResponsePreHandlerAddsWrapUp(t *testing.T) {
	pre := NewResponseChatModelPreHandler(2)
	state := &model.AppState{ToolCallCount: 2}

	out, err := pre(context.Background(), []*schema.Message{schema.UserMessage("hi")}, state)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, schema.System, out[1].Role)
	assert.Contains(t, out[1].Content, "maximum tool call limit (2)")
	assert.True(t, state.ToolCallLimitReached)
}

func TestInputPreHandlerResets(t *testing.T) {
	pre := NewInputConverterPreHandler()
	state := &model.AppState{ToolCallCount: 4, ToolCallLimitReached: true, TotalCostUSD: 1, History: []*schema.Message{schema.UserMessage("old")}}

	_, err := pre(context.Background(), model.QueryInput{ConversationID: "c1", Query: "q"}, state)
	require.NoError(t, err)
	assert.Equal(t, "c1", state.ConversationID)
	assert.Zero(t, state.ToolCallCount)
	assert.False(t, state.ToolCallLimitReached)
	assert.Zero(t, state.TotalCostUSD)
	assert.Empty(t, state.History)

	_, err = pre(context.Background(), model.QueryInput{Query: "q"}, state)
	assert.Error(t, err)
}

func TestToolCallIDs(t *testing.T) {
	state := &model.AppState{}
	out := &schema.Message{Role: schema.Assistant, ToolCalls: []schema.ToolCall{{ID: ""}, {ID: "given"}, {ID: " "}}}

	assignToolCallIDs(out, state)
	assert.Equal(t, "call_1", out.ToolCalls[0].ID)
	assert.Equal(t, "given", out.ToolCalls[1].ID)
	assert.Equal(t, "call_2", out.ToolCalls[2].ID)

	results := []*schema.Message{
		{Role: schema.Tool, Content: "a"},
		{Role: schema.Tool, Content: "b", ToolCallID: "given"},
		{Role: schema.Tool, Content: "c"},
	}
	fillToolCallIDs(results, []*schema.Message{schema.UserMessage("q"), out})
	assert.Equal(t, "call_1", results[0].ToolCallID)
	assert.Equal(t, "given", results[1].ToolCallID)
	assert.Equal(t, "call_2", results[2].ToolCallID)
}

func TestApplyUsageCost(t *testing.T) {
	state := &model.AppState{TotalCostUSD: 0.5}
	out := &schema.Message{
		Role:         schema.Assistant,
		ResponseMeta: &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 1_000_000}},
	}

	applyUsageCost(out, state, "gemini-2.5-flash")
	assert.InDelta(t, 0.8, state.TotalCostUSD, 1e-9)
	assert.InDelta(t, 0.8, out.Extra["usage_cost_total_usd"], 1e-9)
	cost, ok := out.Extra["usage_cost"].(model.UsageCost)
	require.True(t, ok)
	assert.Equal(t, "gemini-2.5-flash", cost.Model)

	bare := &schema.Message{Role: schema.Assistant}
	applyUsageCost(bare, state, "gemini-2.5-flash")
	assert.Nil(t, bare.Extra)
}

func TestRouteAfterModel(t *testing.T) {
	withCalls := &schema.Message{ToolCalls: []schema.ToolCall{{ID: "x"}}}
	assert.Equal(t, NodeToolExecutor, routeAfterModel(withCalls, false))
	assert.Equal(t, compose.END, routeAfterModel(withCalls, true))
	assert.Equal(t, compose.END, routeAfterModel(schema.AssistantMessage("done", nil), false))
}
