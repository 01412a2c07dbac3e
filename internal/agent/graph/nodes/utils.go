package nodes

import (
	"github.com/wastewise/wastewise-core/internal/agent/model"
)

const DefaultMaxToolCalls = 10

// normalizeMaxToolCalls returns the default when n is not positive.
func normalizeMaxToolCalls(n int) int {
	if n <= 0 {
		return DefaultMaxToolCalls
	}
	return n
}

// checkAndMarkToolLimit marks the state once the count has reached the
// limit. Returns true only on the call that marks it.
func checkAndMarkToolLimit(state *model.AppState, max int) bool {
	max = normalizeMaxToolCalls(max)
	if !state.ToolCallLimitReached && state.ToolCallCount >= max {
		state.ToolCallLimitReached = true
		return true
	}
	return false
}

// incrementToolCallAndCheck counts one tool round and marks the state when
// the count goes past the limit.
func incrementToolCallAndCheck(state *model.AppState, max int) bool {
	max = normalizeMaxToolCalls(max)
	state.ToolCallCount++
	if state.ToolCallCount > max {
		state.ToolCallLimitReached = true
		return true
	}
	return false
}

func resetQueryState(state *model.AppState) {
	state.History = nil
	state.ToolCallCount = 0
	state.ToolCallLimitReached = false
	state.ToolCallIDSeq = 0
	state.TotalCostUSD = 0
}
