// ABOUTME: Tool definitions and handler contract for agent-invocable operations.
// ABOUTME: Defines the uniform success/error envelope returned by every tool.

package tools

import (
	"context"
	"encoding/json"
)

// Handler is a function that executes a tool on behalf of a user.
// It receives the authenticated user's ID and the tool input as JSON and
// returns the envelope as JSON. Domain failures (validation, not found) are
// encoded in the envelope with a nil error; a non-nil error means an
// infrastructure fault outside the tool's taxonomy.
type Handler func(ctx context.Context, userID string, input json.RawMessage) (json.RawMessage, error)

// Definition describes a tool to the model-selection layer. The description
// text steers which tool an LLM picks for ambiguous phrasing, so it is part
// of the contract.
type Definition struct {
	Name            string
	Description     string
	InputSchemaJSON string
}

// Tool pairs a definition with its in-process handler.
type Tool struct {
	Definition Definition
	Handler    Handler
}

// envelope is the uniform response shape returned by every tool invocation.
// Success payloads ride alongside as sibling fields; see the per-tool result
// types in tasks.go.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// failure builds a {success:false, error} envelope.
func failure(msg string) json.RawMessage {
	out, _ := json.Marshal(envelope{Success: false, Error: msg})
	return out
}
