package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/wastewise/wastewise-core/internal/agent/graph/tools"
	"github.com/wastewise/wastewise-core/internal/agent/model"
)

//go:embed template/assistant_prompt.txt
var assistantSystemPrompt string

// RenderAssistantSystem renders the assistant system prompt through the Eino
// prompt component so prompt callbacks fire.
func RenderAssistantSystem(ctx context.Context, config model.AssistantPromptConfig) (string, error) {
	storeName := strings.TrimSpace(config.StoreName)
	if storeName == "" {
		storeName = "the store"
	}
	currency := strings.TrimSpace(config.Currency)
	if currency == "" {
		currency = "INR"
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(assistantSystemPrompt),
	)
	vars := map[string]any{
		"StoreName":      storeName,
		"Currency":       currency,
		"SearchTool":     tools.ToolSearchProducts,
		"PricingTool":    tools.ToolGetDynamicPricing,
		"RecommendTool":  tools.ToolGetRecommendations,
		"DeadStockTool":  tools.ToolGetDeadStockRisk,
		"CategoriesTool": tools.ToolListCategories,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("assistant prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("assistant prompt render: empty result")
	}
	return msgs[0].Content, nil
}
