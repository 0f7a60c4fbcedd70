package core

import (
	"time"

	"github.com/google/uuid"
)

// Conversation roles used in transcript messages.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleTool  = "tool"
)

// Message is a single transcript record. After it is appended to a session it
// must be treated as immutable: the transcript is append-only and its ordering
// equals chronological turn order.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // user, agent or tool
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Turn      int       `json:"turn"` // owning turn index
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message authored by 'author' with the given role.
func NewMessage(role, author, content string) Message {
	return Message{
		ID:        NewID(),
		Role:      role,
		Author:    author,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserMessage is a convenience wrapper for a user-authored message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, RoleUser, content)
}

// NewAgentMessage creates a message produced by a named agent.
func NewAgentMessage(author, content string) Message {
	return NewMessage(RoleAgent, author, content)
}

// NewToolMessage records the outcome of a tool invocation in the transcript.
func NewToolMessage(author, content string) Message {
	return NewMessage(RoleTool, author, content)
}

// ToolInvocation is a tool call request emitted by an agent during a turn.
// Arguments carries the serialized (JSON) argument payload as produced by the
// external executor.
type ToolInvocation struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// Vars holds session-scoped context variables shared across turns and agents.
// A key once set retains its last-written value until explicitly overwritten;
// there is no implicit expiry.
type Vars map[string]any

// Clone returns a shallow copy safe for independent mutation.
func (v Vars) Clone() Vars {
	c := make(Vars, len(v))
	for k, val := range v {
		c[k] = val
	}
	return c
}

// NewID generates a new unique identifier for messages and invocations.
func NewID() string { return uuid.NewString() }
