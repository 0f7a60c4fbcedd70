package testutil

import (
	"github.com/campusmesh/campusmesh/core"
	"github.com/campusmesh/campusmesh/executor"
)

// TurnBuilder provides a fluent helper for constructing executor turn results
// in tests. Example:
//
//	turn := NewTurnBuilder().AgentText("TriageAgent", "routing").Invoke("route_to_course_advisor").Build()
//
// Chain only the parts you need.
type TurnBuilder struct {
	messages    []core.Message
	invocations []core.ToolInvocation
	nextAgent   string
	vars        core.Vars
}

// NewTurnBuilder creates an empty builder.
func NewTurnBuilder() *TurnBuilder { return &TurnBuilder{} }

// AgentText appends an agent text message (chainable).
func (b *TurnBuilder) AgentText(author, text string) *TurnBuilder {
	b.messages = append(b.messages, core.NewAgentMessage(author, text))
	return b
}

// Invoke appends a tool invocation without arguments (chainable).
func (b *TurnBuilder) Invoke(name string) *TurnBuilder {
	return b.InvokeArgs(name, "")
}

// InvokeArgs appends a tool invocation with a raw JSON argument string (chainable).
func (b *TurnBuilder) InvokeArgs(name, args string) *TurnBuilder {
	b.invocations = append(b.invocations, core.ToolInvocation{ID: core.NewID(), Name: name, Arguments: args})
	return b
}

// Var sets a context variable in the turn's delta (chainable).
func (b *TurnBuilder) Var(key string, val any) *TurnBuilder {
	if b.vars == nil {
		b.vars = core.Vars{}
	}
	b.vars[key] = val
	return b
}

// NextAgent sets the executor's next-agent hint (chainable).
func (b *TurnBuilder) NextAgent(name string) *TurnBuilder {
	b.nextAgent = name
	return b
}

// Build constructs the executor.TurnResult value.
func (b *TurnBuilder) Build() *executor.TurnResult {
	return &executor.TurnResult{
		Messages:        b.messages,
		ToolInvocations: b.invocations,
		NextAgent:       b.nextAgent,
		Vars:            b.vars,
	}
}
