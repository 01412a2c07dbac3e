package conversations

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/wastewise/wastewise-core/internal/agent/model"
)

type MessagesManager struct {
	conversationRepo model.ConversationRepository
	maxMessages      int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		maxMessages:      config.HistoryMaxMessages,
	}
}

// SaveUserMessage stores the incoming query.
func (cm *MessagesManager) SaveUserMessage(ctx context.Context, conversationID, query string) error {
	return cm.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(query))
}

// BuildResponseContext returns the system prompt followed by the most recent
// stored user and assistant turns.
func (cm *MessagesManager) BuildResponseContext(ctx context.Context, conversationID string, systemPrompt string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	turns := make([]*schema.Message, 0, len(history.Messages))
	for _, m := range history.Messages {
		if m == nil || strings.TrimSpace(m.Content) == "" {
			continue
		}
		if m.Role == schema.User || m.Role == schema.Assistant {
			turns = append(turns, m)
		}
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
	}
	return append(messages, trimTail(turns, cm.maxMessages)...), nil
}

func (cm *MessagesManager) SaveResponse(ctx context.Context, conversationID string, content string) error {
	return cm.conversationRepo.AddMessage(ctx, conversationID, schema.AssistantMessage(content, nil))
}

// Clear drops the stored history and returns how many messages it held.
func (cm *MessagesManager) Clear(ctx context.Context, conversationID string) (int, error) {
	n, err := cm.conversationRepo.GetMessageCount(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	if err := cm.conversationRepo.ClearHistory(ctx, conversationID); err != nil {
		return 0, err
	}
	return n, nil
}

// trimTail keeps the last maxMessages entries; maxMessages <= 0 keeps all.
func trimTail(messages []*schema.Message, maxMessages int) []*schema.Message {
	if maxMessages <= 0 || len(messages) <= maxMessages {
		return messages
	}
	return messages[len(messages)-maxMessages:]
}
