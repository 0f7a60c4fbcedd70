// Package openai implements the external executor using the OpenAI Chat
// Completions API with function/tool calling. It adapts the engine's
// transcript and agent descriptor into the SDK's message format and back.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campusmesh/campusmesh/core"
	"github.com/campusmesh/campusmesh/executor"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI executor backend.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Executor wraps the OpenAI Chat Completions API behind the generic
// executor.Executor interface.
type Executor struct {
	client *openai.Client
	opts   Options
}

// NewExecutor creates an OpenAI executor using the official client, which
// reads OPENAI_API_KEY from the environment.
func NewExecutor(optFns ...func(o *Options)) *Executor {
	client := openai.NewClient()
	return NewExecutorFromClient(&client, optFns...)
}

// NewExecutorFromClient creates an OpenAI executor from an existing client.
func NewExecutorFromClient(client *openai.Client, optFns ...func(o *Options)) *Executor {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Executor{client: client, opts: opts}
}

// Invoke implements executor.Executor with a single non-streaming completion.
func (e *Executor) Invoke(ctx context.Context, desc *core.Descriptor, transcript []core.Message, vars core.Vars) (*executor.TurnResult, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(desc, transcript, vars),
		Model:               e.opts.Model,
		Temperature:         openai.Float(e.opts.Temperature),
		MaxCompletionTokens: openai.Int(e.opts.MaxCompletionTokens),
	}
	if tools := buildTools(desc); len(tools) > 0 {
		params.Tools = tools
	}

	resp, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	ch0 := resp.Choices[0]
	result := &executor.TurnResult{}
	if ch0.Message.Content != "" {
		result.Messages = append(result.Messages, core.NewAgentMessage(desc.Name, ch0.Message.Content))
	}
	for _, tc := range ch0.Message.ToolCalls {
		result.ToolInvocations = append(result.ToolInvocations, core.ToolInvocation{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return result, nil
}

// buildMessages converts the transcript into chat messages. The agent's
// instruction becomes the system message, extended with the current context
// variables so instructions may reference session state. Tool result messages
// are replayed as user-visible context; invocation pairing is not retained
// across turns.
func buildMessages(desc *core.Descriptor, transcript []core.Message, vars core.Vars) []openai.ChatCompletionMessageParamUnion {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt(desc, vars)),
	}
	for _, m := range transcript {
		switch m.Role {
		case core.RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		case core.RoleAgent:
			messages = append(messages, openai.AssistantMessage(m.Content))
		case core.RoleTool:
			messages = append(messages, openai.UserMessage(fmt.Sprintf("[tool result] %s", m.Content)))
		}
	}
	return messages
}

func systemPrompt(desc *core.Descriptor, vars core.Vars) string {
	if len(vars) == 0 {
		return desc.Instruction
	}
	payload, err := json.Marshal(vars)
	if err != nil {
		return desc.Instruction
	}
	return fmt.Sprintf("%s\n\nSession context:\n%s", desc.Instruction, payload)
}

// buildTools exposes the agent's declared handlers plus its external-tool
// scopes as function definitions.
func buildTools(desc *core.Descriptor) []openai.ChatCompletionToolParam {
	var tools []openai.ChatCompletionToolParam
	for _, h := range desc.Handlers {
		tools = append(tools, openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        h.Name,
				Description: openai.String(h.Description),
				Parameters: openai.FunctionParameters{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
		})
	}
	for _, scope := range desc.Scopes {
		tools = append(tools, openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        scope,
				Description: openai.String("Run a read-only SQL query against the campus database."),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{
							"type":        "string",
							"description": "SELECT statement to execute",
						},
					},
					"required": []string{"query"},
				},
			},
		})
	}
	return tools
}
