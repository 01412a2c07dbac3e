package graph

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-core/internal/agent/graph/conversations"
	"github.com/wastewise/wastewise-core/internal/agent/graph/tools"
	agentmodel "github.com/wastewise/wastewise-core/internal/agent/model"
	"github.com/wastewise/wastewise-core/pkg/wasteapi"
)

// scriptedModel replays canned replies and records what it was sent.
type scriptedModel struct {
	mu      sync.Mutex
	replies []*schema.Message
	inputs  [][]*schema.Message
	bound   []*schema.ToolInfo
}

func (m *scriptedModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, input)
	if len(m.replies) == 0 {
		return nil, errors.New("no scripted reply left")
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	return r, nil
}

func (m *scriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *scriptedModel) BindTools(infos []*schema.ToolInfo) error {
	m.bound = infos
	return nil
}

type memoryRepo struct {
	mu   sync.Mutex
	msgs map[string][]*schema.Message
}

func (r *memoryRepo) AddMessage(_ context.Context, id string, msg *schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs[id] = append(r.msgs[id], msg)
	return nil
}

func (r *memoryRepo) LoadHistory(_ context.Context, id string) (*agentmodel.ConversationHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &agentmodel.ConversationHistory{ConversationID: id, Messages: append([]*schema.Message(nil), r.msgs[id]...)}, nil
}

func (r *memoryRepo) ClearHistory(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.msgs, id)
	return nil
}

func (r *memoryRepo) GetMessageCount(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs[id]), nil
}

type stubAPI struct {
	categoriesCalls int
}

func (s *stubAPI) ListProducts(context.Context, wasteapi.ProductFilter) ([]wasteapi.Product, error) {
	return nil, nil
}

func (s *stubAPI) DynamicPricing(context.Context, string) (wasteapi.DynamicPricingResponse, error) {
	return wasteapi.DynamicPricingResponse{}, nil
}

func (s *stubAPI) Recommendations(context.Context, string, wasteapi.RecommendationsParams) (wasteapi.RecommendationsResponse, error) {
	return wasteapi.RecommendationsResponse{}, nil
}

func (s *stubAPI) DeadStockRisk(context.Context, string) ([]wasteapi.DeadStockRiskItem, error) {
	return nil, nil
}

func (s *stubAPI) Categories(context.Context) (wasteapi.CategoriesResponse, error) {
	s.categoriesCalls++
	return wasteapi.CategoriesResponse{Categories: []string{"Bakery", "Dairy"}}, nil
}

func buildRunner(t *testing.T, cm *scriptedModel, repo *memoryRepo, api tools.API, maxCalls int) Runner {
	t.Helper()
	messages := conversations.NewMessagesManager(repo, agentmodel.ConversationConfig{})
	runnable, err := BuildGraph(context.Background(), &GraphConfig{
		ChatModel:       cm,
		ModelName:       "gemini-2.5-flash",
		MessagesManager: messages,
		PromptConfig:    &agentmodel.AssistantPromptConfig{StoreName: "FreshMart"},
		API:             api,
		ToolMaxCalls:    maxCalls,
	})
	require.NoError(t, err)
	return NewRunner(runnable, messages)
}

func TestGraphToolRoundTrip(t *testing.T) {
	cm := &scriptedModel{replies: []*schema.Message{
		{
			Role: schema.Assistant,
			ToolCalls: []schema.ToolCall{{
				Function: schema.FunctionCall{Name: tools.ToolListCategories, Arguments: `{}`},
			}},
		},
		{
			Role:         schema.Assistant,
			Content:      "We carry Bakery and Dairy.",
			ResponseMeta: &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 1000, CompletionTokens: 100, TotalTokens: 1100}},
		},
	}}
	repo := &memoryRepo{msgs: map[string][]*schema.Message{}}
	api := &stubAPI{}
	runner := buildRunner(t, cm, repo, api, 3)

	reply, err := runner.Invoke(context.Background(), agentmodel.QueryInput{ConversationID: "c1", Query: "What do you sell?"})
	require.NoError(t, err)

	assert.Equal(t, "c1", reply.ConversationID)
	assert.Equal(t, "We carry Bakery and Dairy.", reply.Content)
	assert.Equal(t, 1, reply.ToolRounds)
	assert.Greater(t, reply.CostUSD, 0.0)
	assert.Equal(t, 1, api.categoriesCalls)
	assert.Len(t, cm.bound, 5)

	require.Len(t, cm.inputs, 2)
	assert.Equal(t, schema.System, cm.inputs[0][0].Role)
	second := cm.inputs[1]
	last := second[len(second)-1]
	assert.Equal(t, schema.Tool, last.Role)
	assert.Equal(t, "call_1", last.ToolCallID)
	assert.Contains(t, last.Content, "Dairy")

	stored := repo.msgs["c1"]
	require.Len(t, stored, 2)
	assert.Equal(t, schema.User, stored[0].Role)
	assert.Equal(t, "We carry Bakery and Dairy.", stored[1].Content)
}

func TestGraphNewConversationID(t *testing.T) {
	cm := &scriptedModel{replies: []*schema.Message{schema.AssistantMessage("Hello!", nil)}}
	repo := &memoryRepo{msgs: map[string][]*schema.Message{}}
	runner := buildRunner(t, cm, repo, &stubAPI{}, 0)

	reply, err := runner.Invoke(context.Background(), agentmodel.QueryInput{Query: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, reply.ConversationID)
	assert.Len(t, repo.msgs[reply.ConversationID], 2)

	_, err = runner.Invoke(context.Background(), agentmodel.QueryInput{Query: "  "})
	assert.Error(t, err)
}

func TestGraphReset(t *testing.T) {
	cm := &scriptedModel{replies: []*schema.Message{
		schema.AssistantMessage("Hello!", nil),
		schema.AssistantMessage("Hello again!", nil),
	}}
	repo := &memoryRepo{msgs: map[string][]*schema.Message{}}
	runner := buildRunner(t, cm, repo, &stubAPI{}, 0)
	ctx := context.Background()

	_, err := runner.Invoke(ctx, agentmodel.QueryInput{ConversationID: "c2", Query: "hi"})
	require.NoError(t, err)

	n, err := runner.Reset(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, repo.msgs["c2"])

	_, err = runner.Invoke(ctx, agentmodel.QueryInput{ConversationID: "c2", Query: "hi again"})
	require.NoError(t, err)
	require.Len(t, cm.inputs, 2)
	assert.Len(t, cm.inputs[1], 2, "system prompt and the new query only")

	_, err = runner.Reset(ctx, "")
	assert.Error(t, err)
}

func TestBuildGraphValidation(t *testing.T) {
	_, err := BuildGraph(context.Background(), nil)
	assert.Error(t, err)

	_, err = BuildGraph(context.Background(), &GraphConfig{ChatModel: &scriptedModel{}})
	assert.ErrorContains(t, err, "messages manager")
}
