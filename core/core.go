package core

import "github.com/google/uuid"

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks a message authored by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks a message authored by the agent.
	RoleAssistant Role = "assistant"
	// RoleSystem marks an instruction or context message.
	RoleSystem Role = "system"
)

// Message is a single conversational turn. Messages are append-only within a
// session; ordering is insertion order.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound contract for one chat turn.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the outbound contract for one chat turn. Metadata carries
// diagnostic detail (including failure detail for the error intent) and is
// never a substitute for the response text.
type ChatResponse struct {
	Response string         `json:"response"`
	Intent   Intent         `json:"intent"`
	Sources  []string       `json:"sources,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewID generates a unique identifier for invocations.
func NewID() string { return uuid.NewString() }
