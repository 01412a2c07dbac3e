package model

import "time"

// ================ Config ================
type ConversationConfig struct {
	TTL time.Duration `envconfig:"CONVERSATION_TTL" default:"15m"`

	// HistoryMaxMessages caps how much history is replayed to the model; 0
	// replays everything.
	HistoryMaxMessages int `envconfig:"CONVERSATION_HISTORY_MAX_MESSAGES" default:"30"`

	Tools struct {
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"10"`
	}
}

type AssistantModelConfig struct {
	Model          string  `envconfig:"ASSISTANT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens      int     `envconfig:"ASSISTANT_MAX_TOKENS" default:"2000"`
	Temperature    float32 `envconfig:"ASSISTANT_TEMPERATURE" default:"0.3"`
	ThinkingBudget int32   `envconfig:"ASSISTANT_THINKING_BUDGET" default:"1024"`
}

type AssistantPromptConfig struct {
	StoreName string `envconfig:"PROMPT_STORE_NAME" default:"FreshMart"`
	// Currency is only used to phrase prices in replies.
	Currency string `envconfig:"PROMPT_CURRENCY" default:"INR"`
}
