// Package executor defines the external language-model executor interface
// consumed by the conversation loop, plus a deterministic mock for tests.
// Backends live in subpackages (openai, anthropic); the loop driver never
// depends on a concrete provider.
package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/campusmesh/campusmesh/core"
)

// TurnResult is the normalized output of one agent invocation: the new
// messages produced, the tool invocations issued during the turn, an
// optional next-agent hint and an optional context variables delta.
type TurnResult struct {
	Messages        []core.Message        `json:"messages"`
	ToolInvocations []core.ToolInvocation `json:"tool_invocations,omitempty"`
	NextAgent       string                `json:"next_agent,omitempty"`
	Vars            core.Vars             `json:"vars,omitempty"`
}

// Executor turns an agent descriptor, the transcript and the current context
// variables into a TurnResult. Any returned error is fatal to the session.
type Executor interface {
	Invoke(ctx context.Context, desc *core.Descriptor, transcript []core.Message, vars core.Vars) (*TurnResult, error)
}

// Mock is a lightweight in-memory Executor useful for tests. Turns are
// scripted per agent and consumed in order; an unscripted agent yields an
// empty result (no messages, no invocations), which drives the loop into its
// fallback termination path.
type Mock struct {
	mu    sync.Mutex
	turns map[string][]*TurnResult
	errs  map[string]error
	calls []string
}

// NewMock constructs an empty scripted executor.
func NewMock() *Mock {
	return &Mock{turns: make(map[string][]*TurnResult), errs: make(map[string]error)}
}

// Script appends a canned turn result for the named agent.
func (m *Mock) Script(agent string, result *TurnResult) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns[agent] = append(m.turns[agent], result)
	return m
}

// Fail makes the next invocation of the named agent return err.
func (m *Mock) Fail(agent string, err error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[agent] = err
	return m
}

// Calls returns the agent names invoked, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Invoke implements Executor.
func (m *Mock) Invoke(ctx context.Context, desc *core.Descriptor, _ []core.Message, _ core.Vars) (*TurnResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if desc == nil {
		return nil, fmt.Errorf("nil descriptor")
	}

	m.calls = append(m.calls, desc.Name)

	if err, ok := m.errs[desc.Name]; ok {
		delete(m.errs, desc.Name)
		return nil, err
	}

	queue := m.turns[desc.Name]
	if len(queue) == 0 {
		return &TurnResult{}, nil
	}

	next := queue[0]
	m.turns[desc.Name] = queue[1:]

	return next, nil
}
