// File: internal/agent/conversation.go
// Description: Neutral conversation model owned by the orchestrator. Turns
// strictly alternate user and assistant roles; an assistant turn carrying
// tool invocations is always followed by a user turn carrying one result
// per invocation, matched by id in request order.

package agent

import (
	"encoding/json"

	"github.com/Singularity-tian/computer-use-experiment/internal/computer"
)

// Role attributes a turn to the task issuer or the model.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// BlockType tags which variant of a Block is populated.
type BlockType string

const (
	// BlockText is plain text.
	BlockText BlockType = "text"
	// BlockToolUse is a tool invocation requested by the model.
	BlockToolUse BlockType = "tool_use"
	// BlockToolResult reports the outcome of one tool invocation.
	BlockToolResult BlockType = "tool_result"
)

// Block is one unit of a turn's payload.
type Block struct {
	Type BlockType

	// Text is populated for BlockText.
	Text string

	// ID is the invocation identifier, generated by the model and echoed
	// verbatim in the matching result. Populated for BlockToolUse and
	// BlockToolResult.
	ID string

	// Name and Input are populated for BlockToolUse.
	Name  string
	Input json.RawMessage

	// Result is populated for BlockToolResult.
	Result *computer.Outcome
}

// Turn is one message in the conversation.
type Turn struct {
	Role    Role
	Content []Block
}

// TextBlock builds a plain text block.
func TextBlock(text string) Block {
	return Block{Type: BlockText, Text: text}
}

// ToolUseBlock builds a tool invocation block.
func ToolUseBlock(id, name string, input json.RawMessage) Block {
	return Block{Type: BlockToolUse, ID: id, Name: name, Input: input}
}

// ToolResultBlock builds a result block for the invocation with the given id.
func ToolResultBlock(id string, outcome computer.Outcome) Block {
	return Block{Type: BlockToolResult, ID: id, Result: &outcome}
}
