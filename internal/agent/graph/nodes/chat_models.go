package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/wastewise/wastewise-core/internal/agent/model"
	logx "github.com/wastewise/wastewise-core/pkg/logger"
)

type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Model   *model.AssistantModelConfig
}

// ChatModel is the assistant's response model together with its name, which
// is needed for cost accounting.
type ChatModel struct {
	Response  *gemini.ChatModel
	ModelName string
}

func NewChatModel(ctx context.Context, config ChatModelConfig) (*ChatModel, error) {
	if config.Model == nil {
		return nil, fmt.Errorf("assistant model config is nil")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	gcfg := &gemini.Config{
		Client:      client,
		Model:       config.Model.Model,
		Temperature: &config.Model.Temperature,
		MaxTokens:   &config.Model.MaxTokens,
	}
	if config.Model.ThinkingBudget > 0 {
		gcfg.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(config.Model.ThinkingBudget),
		}
	}

	cm, err := gemini.NewChatModel(ctx, gcfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating assistant model")
		return nil, fmt.Errorf("error creating assistant model: %w", err)
	}

	return &ChatModel{Response: cm, ModelName: config.Model.Model}, nil
}

func (cm *ChatModel) BindTools(ctx context.Context, tools []*schema.ToolInfo) error {
	if err := cm.Response.BindTools(tools); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}

	logx.Debug().Int("tool_count", len(tools)).Msg("Bound tools to assistant model")
	return nil
}
