package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/wastewise/wastewise-core/internal/agent/graph/conversations"
	"github.com/wastewise/wastewise-core/internal/agent/graph/prompts"
	"github.com/wastewise/wastewise-core/internal/agent/model"
	logx "github.com/wastewise/wastewise-core/pkg/logger"
)

const (
	NodeInputConverter    = "InputConverter"
	NodeResponseChatModel = "ResponseChatModel"
	NodeToolExecutor      = "ToolExecutor"
)

// NewInputConverterPreHandler binds the conversation and resets the
// per-query counters.
func NewInputConverterPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		if strings.TrimSpace(in.ConversationID) == "" {
			return in, fmt.Errorf("conversation id is required")
		}
		s.ConversationID = in.ConversationID
		resetQueryState(s)
		return in, nil
	}
}

// NewInputConverterNode stores the user query and builds the model input:
// the system prompt followed by the conversation so far.
func NewInputConverterNode(
	mm *conversations.MessagesManager,
	promptCfg *model.AssistantPromptConfig,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) ([]*schema.Message, error) {
		if err := mm.SaveUserMessage(ctx, input.ConversationID, input.Query); err != nil {
			return nil, fmt.Errorf("save user message: %w", err)
		}

		systemPrompt, err := prompts.RenderAssistantSystem(ctx, *promptCfg)
		if err != nil {
			return nil, fmt.Errorf("render assistant system prompt: %w", err)
		}

		messages, err := mm.BuildResponseContext(ctx, input.ConversationID, systemPrompt)
		if err != nil {
			return nil, fmt.Errorf("build response context: %w", err)
		}
		return messages, nil
	})
}

// NewResponseChatModelPreHandler accumulates the model input in state and
// appends a wrap-up notice once the tool budget is spent.
func NewResponseChatModelPreHandler(maxToolCalls int) func(context.Context, []*schema.Message, *model.AppState) ([]*schema.Message, error) {
	return func(ctx context.Context, in []*schema.Message, state *model.AppState) ([]*schema.Message, error) {
		fillToolCallIDs(in, state.History)
		state.History = append(state.History, in...)

		if checkAndMarkToolLimit(state, maxToolCalls) {
			state.History = append(state.History, &schema.Message{
				Role: schema.System,
				Content: fmt.Sprintf(
					"SYSTEM NOTICE: You have reached the maximum tool call limit (%d). "+
						"Answer now using the information you already have and say what you could not look up.",
					normalizeMaxToolCalls(maxToolCalls),
				),
			})
		}

		logx.Debug().Str("conversation_id", state.ConversationID).Int("messages", len(state.History)).Msg("AI thinking...")
		return state.History, nil
	}
}

// NewResponseChatModelPostHandler records cost, normalizes tool call IDs and
// persists the final assistant answer.
func NewResponseChatModelPostHandler(
	mm *conversations.MessagesManager,
	modelName string,
) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if out == nil {
			return nil, fmt.Errorf("assistant model returned no message")
		}

		applyUsageCost(out, state, modelName)
		assignToolCallIDs(out, state)
		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		out.Extra["tool_rounds"] = state.ToolCallCount
		state.History = append(state.History, out)

		if len(out.ToolCalls) > 0 {
			logx.Debug().Int("tool_count", len(out.ToolCalls)).Msg("Calling tools")
		} else {
			logx.Debug().Msg("AI response ready")
		}

		// Only final answers are persisted; tool rounds stay in local state.
		if out.Role == schema.Assistant && (len(out.ToolCalls) == 0 || state.ToolCallLimitReached) && strings.TrimSpace(out.Content) != "" {
			if err := mm.SaveResponse(ctx, state.ConversationID, out.Content); err != nil {
				logx.Error().
					Str("conversation_id", state.ConversationID).
					Err(err).
					Msg("Error saving assistant response")
			}
		}

		return out, nil
	}
}

func NewToolExecutorCondition() func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, input *schema.Message) (string, error) {
		var limitReached bool
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			limitReached = state.ToolCallLimitReached
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("read state: %w", err)
		}

		return routeAfterModel(input, limitReached), nil
	}
}

func routeAfterModel(input *schema.Message, limitReached bool) string {
	if limitReached {
		logx.Debug().Msg("Tool limit reached - routing to end")
		return compose.END
	}
	if input != nil && len(input.ToolCalls) > 0 {
		logx.Debug().Int("tool_count", len(input.ToolCalls)).Msg("Routing to ToolExecutor")
		return NodeToolExecutor
	}
	return compose.END
}

func NewToolExecutorPreHandler(maxToolCalls int) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, in *schema.Message, state *model.AppState) (*schema.Message, error) {
		exceeded := incrementToolCallAndCheck(state, maxToolCalls)

		logx.Debug().
			Int("tool_call_count", state.ToolCallCount).
			Str("conversation_id", state.ConversationID).
			Msg("Tool execution attempt")

		if exceeded {
			logx.Warn().
				Int("tool_call_count", state.ToolCallCount).
				Int("max_tool_calls", normalizeMaxToolCalls(maxToolCalls)).
				Str("conversation_id", state.ConversationID).
				Msg("Tool call limit exceeded - flagging and continuing")
		}
		return in, nil
	}
}

// applyUsageCost attaches the call cost and the running query total to
// out.Extra.
func applyUsageCost(out *schema.Message, state *model.AppState, modelName string) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	cost := model.ComputeCost(modelName, out.ResponseMeta.Usage)
	state.TotalCostUSD += cost.TotalCost

	if out.Extra == nil {
		out.Extra = map[string]any{}
	}
	out.Extra["usage_cost"] = cost
	out.Extra["usage_cost_total_usd"] = state.TotalCostUSD

	logx.Debug().
		Str("conversation_id", state.ConversationID).
		Str("model", modelName).
		Int("prompt_tokens", cost.PromptTokens).
		Int("completion_tokens", cost.CompletionTokens).
		Float64("total_cost_usd", cost.TotalCost).
		Msg("LLM usage")
}

// assignToolCallIDs gives tool calls without an ID a local call_<n> ID.
func assignToolCallIDs(out *schema.Message, state *model.AppState) {
	for i := range out.ToolCalls {
		if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
			state.ToolCallIDSeq++
			out.ToolCalls[i].ID = fmt.Sprintf("call_%d", state.ToolCallIDSeq)
		}
	}
}

// fillToolCallIDs pairs tool results missing a tool_call_id with the calls of
// the latest assistant message, by position.
func fillToolCallIDs(in, history []*schema.Message) {
	var calls []schema.ToolCall
	for i := len(history) - 1; i >= 0; i-- {
		if m := history[i]; m != nil && m.Role == schema.Assistant && len(m.ToolCalls) > 0 {
			calls = m.ToolCalls
			break
		}
	}
	if len(calls) == 0 {
		return
	}

	n := 0
	for _, m := range in {
		if m == nil || m.Role != schema.Tool {
			continue
		}
		if strings.TrimSpace(m.ToolCallID) == "" && n < len(calls) {
			m.ToolCallID = calls[n].ID
		}
		n++
	}
}
