// File: internal/agent/transport.go
package agent

import "context"

// StopReason is the transport-neutral reason the model stopped producing
// content.
type StopReason string

const (
	// StopEndTurn means the model finished naturally with no further tool
	// use intended.
	StopEndTurn StopReason = "end_turn"
	// StopToolUse means the model is waiting for tool results.
	StopToolUse StopReason = "tool_use"
	// StopMaxTokens means the response was cut off by the output budget.
	StopMaxTokens StopReason = "max_tokens"
	// StopOther covers stop reasons the orchestrator has no special
	// handling for.
	StopOther StopReason = "other"
)

// Response is one model response: a stop reason plus ordered content blocks
// (text and tool invocations).
type Response struct {
	StopReason StopReason
	Blocks     []Block
}

// Transport issues one model request carrying the full conversation and the
// tool schema. An error is fatal to the run: the orchestrator never retries,
// because side-effecting actions may already have executed and a blind
// replay could run them again.
type Transport interface {
	Send(ctx context.Context, conversation []Turn) (*Response, error)
}
