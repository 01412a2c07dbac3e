package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/wastewise/wastewise-core/internal/agent/graph/conversations"
	"github.com/wastewise/wastewise-core/internal/agent/graph/nodes"
	"github.com/wastewise/wastewise-core/internal/agent/graph/observers"
	"github.com/wastewise/wastewise-core/internal/agent/graph/tools"
	agentmodel "github.com/wastewise/wastewise-core/internal/agent/model"
	logx "github.com/wastewise/wastewise-core/pkg/logger"
)

// Runner executes the compiled graph for one shopper query.
type Runner interface {
	Invoke(ctx context.Context, in agentmodel.QueryInput) (*agentmodel.Reply, error)
	// Reset forgets a conversation and returns the number of messages dropped.
	Reset(ctx context.Context, conversationID string) (int, error)
}

// Config holds everything needed to compose the assistant graph end-to-end.
type Config struct {
	APIKey           string
	BaseURL          string
	AssistantModel   agentmodel.AssistantModelConfig
	AssistantPrompt  agentmodel.AssistantPromptConfig
	Conversation     agentmodel.ConversationConfig
	ConversationRepo agentmodel.ConversationRepository
	API              tools.API
}

// ToolCallingModel is the chat model surface the graph needs.
type ToolCallingModel interface {
	model.ChatModel
	BindTools(tools []*schema.ToolInfo) error
}

type GraphConfig struct {
	ChatModel       ToolCallingModel
	ModelName       string
	MessagesManager *conversations.MessagesManager
	PromptConfig    *agentmodel.AssistantPromptConfig
	API             tools.API
	ToolMaxCalls    int
}

type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[agentmodel.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[agentmodel.QueryInput, *schema.Message]
	messages *conversations.MessagesManager
}

// Invoke runs one query. An empty ConversationID starts a new conversation.
func (r *graphRunner) Invoke(ctx context.Context, in agentmodel.QueryInput) (*agentmodel.Reply, error) {
	if strings.TrimSpace(in.Query) == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if in.ConversationID == "" {
		in.ConversationID = uuid.NewString()
	}

	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return nil, err
	}

	reply := &agentmodel.Reply{ConversationID: in.ConversationID}
	if out == nil {
		return reply, nil
	}
	reply.Content = out.Content
	if v, ok := out.Extra["usage_cost_total_usd"].(float64); ok {
		reply.CostUSD = v
	}
	if v, ok := out.Extra["tool_rounds"].(int); ok {
		reply.ToolRounds = v
	}
	return reply, nil
}

func (r *graphRunner) Reset(ctx context.Context, conversationID string) (int, error) {
	if conversationID == "" {
		return 0, fmt.Errorf("conversation ID is empty")
	}
	n, err := r.messages.Clear(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	logx.Info().Str("conversation_id", conversationID).Int("messages", n).Msg("Conversation cleared")
	return n, nil
}

// BuildAssistantGraph creates the Gemini model and messages manager, builds
// the graph, and returns a Runner.
func BuildAssistantGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}

	cm, err := nodes.NewChatModel(ctx, nodes.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   &cfg.AssistantModel,
	})
	if err != nil {
		return nil, err
	}

	messages := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)
	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModel:       cm.Response,
		ModelName:       cm.ModelName,
		MessagesManager: messages,
		PromptConfig:    &cfg.AssistantPrompt,
		API:             cfg.API,
		ToolMaxCalls:    cfg.Conversation.Tools.MaxCalls,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Assistant graph built successfully")
	return NewRunner(runnable, messages), nil
}

// NewRunner wraps an already compiled graph. messages must be the manager
// the graph was built with.
func NewRunner(runnable compose.Runnable[agentmodel.QueryInput, *schema.Message], messages *conversations.MessagesManager) Runner {
	return &graphRunner{runnable: runnable, messages: messages}
}

// BuildGraph constructs and compiles
// InputConverter -> ResponseChatModel <-> ToolExecutor -> END.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[agentmodel.QueryInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModel == nil {
		return nil, fmt.Errorf("chat model is nil")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.PromptConfig == nil {
		return nil, fmt.Errorf("prompt config is nil")
	}
	if config.API == nil {
		return nil, fmt.Errorf("waste api client is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[agentmodel.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *agentmodel.AppState {
				return &agentmodel.AppState{}
			}),
		),
	}

	if err := builder.setupTools(ctx); err != nil {
		return nil, err
	}
	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// setupTools binds the API tools to the model and adds the tools node.
func (b *GraphBuilder) setupTools(ctx context.Context) error {
	queryTools := tools.GetQueryTools(b.config.API)
	toolInfos, err := tools.GetToolInfos(ctx, queryTools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to get tool infos")
		return fmt.Errorf("failed to get tool infos: %w", err)
	}

	if err := b.config.ChatModel.BindTools(toolInfos); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools to assistant model")
		return fmt.Errorf("failed to bind tools to assistant model: %w", err)
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:               queryTools,
		ExecuteSequentially: true,
		UnknownToolsHandler: func(ctx context.Context, name, input string) (string, error) {
			logx.Warn().
				Str("tool_name", name).
				Str("arguments", input).
				Msg("Unknown or invalid tool call; returning fallback result")
			return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", name), nil
		},
		ToolArgumentsHandler: tools.SanitizeArguments,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return fmt.Errorf("failed to create tools node: %w", err)
	}

	return b.graph.AddToolsNode(nodes.NodeToolExecutor, toolsNode,
		compose.WithStatePreHandler(nodes.NewToolExecutorPreHandler(b.config.ToolMaxCalls)),
	)
}

func (b *GraphBuilder) addNodes() error {
	if err := b.graph.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(b.config.MessagesManager, b.config.PromptConfig),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
	); err != nil {
		return fmt.Errorf("add %s: %w", nodes.NodeInputConverter, err)
	}

	if err := b.graph.AddChatModelNode(nodes.NodeResponseChatModel,
		b.config.ChatModel,
		compose.WithStatePreHandler(nodes.NewResponseChatModelPreHandler(b.config.ToolMaxCalls)),
		compose.WithStatePostHandler(nodes.NewResponseChatModelPostHandler(b.config.MessagesManager, b.config.ModelName)),
	); err != nil {
		return fmt.Errorf("add %s: %w", nodes.NodeResponseChatModel, err)
	}
	return nil
}

func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeResponseChatModel},
		{nodes.NodeToolExecutor, nodes.NodeResponseChatModel},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("add edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

func (b *GraphBuilder) addBranches() error {
	decisionBranch := compose.NewGraphBranch(
		nodes.NewToolExecutorCondition(),
		map[string]bool{
			nodes.NodeToolExecutor: true,
			compose.END:            true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeResponseChatModel, decisionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding decision branch")
		return fmt.Errorf("error adding decision branch: %w", err)
	}
	return nil
}

func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[agentmodel.QueryInput, *schema.Message], error) {
	// Bound total steps so a model that keeps calling tools cannot loop forever.
	maxSteps := 10 + b.config.ToolMaxCalls*2
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
