package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

type ConversationRepository interface {
	// AddMessage appends a message to the conversation history.
	AddMessage(ctx context.Context, conversationID string, message *schema.Message) error

	// LoadHistory retrieves the conversation history, oldest first. An
	// unknown conversation has an empty history.
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	ClearHistory(ctx context.Context, conversationID string) error

	GetMessageCount(ctx context.Context, conversationID string) (int, error)
}

type ConversationHistory struct {
	ConversationID string
	Messages       []*schema.Message
}
