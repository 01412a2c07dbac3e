package model

import (
	"github.com/cloudwego/eino/schema"
)

// AppState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Do not access AppState directly from outside handlers. For persistence,
//     use the MessagesManager.
type AppState struct {
	ConversationID       string
	History              []*schema.Message // mutated only inside Eino state handlers
	ToolCallCount        int
	ToolCallLimitReached bool
	ToolCallIDSeq        int // synthesizes tool_call_id when the provider omits it

	// Accumulated LLM cost (USD) across model invocations for this query.
	TotalCostUSD float64
}

type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}

// Reply is what a Runner returns for one query.
type Reply struct {
	ConversationID string  `json:"conversation_id"`
	Content        string  `json:"content"`
	ToolRounds     int     `json:"tool_rounds"`
	CostUSD        float64 `json:"cost_usd"`
}
