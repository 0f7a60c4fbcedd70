// Package anthropic implements the external executor using the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/campusmesh/campusmesh/core"
	"github.com/campusmesh/campusmesh/executor"
)

// Options configure the Anthropic executor backend.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Executor wraps the Anthropic Messages API behind the generic
// executor.Executor interface.
type Executor struct {
	client *anthropic.Client
	opts   Options
}

// NewExecutor creates an Anthropic executor using the official client. When
// Options.APIKey is empty the client reads ANTHROPIC_API_KEY from the
// environment.
func NewExecutor(optFns ...func(o *Options)) *Executor {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Executor{client: &client, opts: opts}
}

// NewExecutorFromClient creates an Anthropic executor from an existing client.
func NewExecutorFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Executor {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Executor{client: client, opts: opts}
}

// Invoke implements executor.Executor with a single non-streaming call.
func (e *Executor) Invoke(ctx context.Context, desc *core.Descriptor, transcript []core.Message, vars core.Vars) (*executor.TurnResult, error) {
	params := anthropic.MessageNewParams{
		Model:       e.opts.Model,
		Messages:    buildMessages(transcript),
		MaxTokens:   e.opts.MaxTokens,
		Temperature: anthropic.Float(e.opts.Temperature),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt(desc, vars)}},
	}
	if tools := buildTools(desc); len(tools) > 0 {
		params.Tools = tools
	}

	resp, err := e.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	result := &executor.TurnResult{}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			textBlock := block.AsText()
			if textBlock.Text != "" {
				result.Messages = append(result.Messages, core.NewAgentMessage(desc.Name, textBlock.Text))
			}
		case "tool_use":
			toolBlock := block.AsToolUse()
			args := ""
			if toolBlock.Input != nil {
				if argsBytes, err := json.Marshal(toolBlock.Input); err == nil {
					args = string(argsBytes)
				}
			}
			result.ToolInvocations = append(result.ToolInvocations, core.ToolInvocation{
				ID:        toolBlock.ID,
				Name:      toolBlock.Name,
				Arguments: args,
			})
		}
	}

	return result, nil
}

// buildMessages converts the transcript into Anthropic messages. Agent
// messages map to the assistant role; tool result messages are replayed as
// user-visible context since invocation pairing is not retained across turns.
func buildMessages(transcript []core.Message) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	for _, m := range transcript {
		switch m.Role {
		case core.RoleAgent:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case core.RoleTool:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf("[tool result] %s", m.Content))))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
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
// scopes as Anthropic tool definitions.
func buildTools(desc *core.Descriptor) []anthropic.ToolUnionParam {
	var tools []anthropic.ToolUnionParam
	for _, h := range desc.Handlers {
		schema := anthropic.ToolInputSchemaParam{
			Type:       constant.Object("object"),
			Properties: map[string]any{},
		}
		tools = append(tools, anthropic.ToolUnionParamOfTool(schema, h.Name))
	}
	for _, scope := range desc.Scopes {
		schema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "SELECT statement to execute",
				},
			},
			Required: []string{"query"},
		}
		tools = append(tools, anthropic.ToolUnionParamOfTool(schema, scope))
	}
	return tools
}
